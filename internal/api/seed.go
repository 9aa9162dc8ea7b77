package api

import (
	"context"
	"errors"

	"github.com/daniellerochac/todo-teste/internal/api/auth"
	"github.com/daniellerochac/todo-teste/internal/model"

	"gorm.io/gorm"
)

// SeedDemoData 初始化本地开发用的演示数据。
//
// 创建一个 demo 用户和几条示例待办，已存在时不做任何修改。
func (s *Server) SeedDemoData(ctx context.Context) error {
	const demoEmail = "demo@todoapp.local"

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", demoEmail).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("demo-password")
	if err != nil {
		return err
	}
	user = model.User{
		Username: "demo",
		Email:    demoEmail,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	todos := []model.Todo{
		{UserID: user.ID, Title: "Try the API", Description: "POST /auth/token with the demo account", Status: model.TodoStatusPending},
		{UserID: user.ID, Title: "Read the docs", Description: "List and filter todos", Status: model.TodoStatusRunning},
	}
	return s.db.WithContext(ctx).Create(&todos).Error
}
