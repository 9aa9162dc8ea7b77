package api

import (
	"context"

	"github.com/daniellerochac/todo-teste/internal/model"

	"gorm.io/gorm"
)

// UserStore 封装用户表的持久化操作。
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context, offset, limit int) ([]model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, user *model.User) error
}

// TodoFilters 是待办列表查询的过滤条件，全部条件取交集。
type TodoFilters struct {
	Title       string           // 标题子串（区分大小写）
	Description string           // 描述子串（区分大小写）
	Status      model.TodoStatus // 精确匹配的状态
	Offset      int
	Limit       int
}

// TodoStore 封装待办表的持久化操作，所有查询都限定在 owner 范围内。
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	ListTodos(ctx context.Context, userID uint, filters TodoFilters) ([]model.Todo, error)
	GetTodo(ctx context.Context, userID, todoID uint) (*model.Todo, error)
	SaveTodo(ctx context.Context, todo *model.Todo) error
	DeleteTodo(ctx context.Context, todo *model.Todo) error
}

type dbUserStore struct {
	db *gorm.DB
}

func (s dbUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s dbUserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s dbUserStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s dbUserStore) ListUsers(ctx context.Context, offset, limit int) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s dbUserStore) SaveUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// DeleteUser 在同一个事务里删除用户及其全部待办，避免留下孤儿行。
func (s dbUserStore) DeleteUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.Todo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, user.ID).Error
	})
}

type dbTodoStore struct {
	db *gorm.DB
}

func (s dbTodoStore) CreateTodo(ctx context.Context, todo *model.Todo) error {
	return s.db.WithContext(ctx).Create(todo).Error
}

func (s dbTodoStore) ListTodos(ctx context.Context, userID uint, filters TodoFilters) ([]model.Todo, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)

	// LIKE BINARY 保证子串匹配区分大小写
	if filters.Title != "" {
		query = query.Where("title LIKE BINARY ?", "%"+filters.Title+"%")
	}
	if filters.Description != "" {
		query = query.Where("description LIKE BINARY ?", "%"+filters.Description+"%")
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	todos := []model.Todo{}
	if err := query.
		Order("id ASC").
		Offset(filters.Offset).
		Limit(filters.Limit).
		Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (s dbTodoStore) GetTodo(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
	var todo model.Todo
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s dbTodoStore) SaveTodo(ctx context.Context, todo *model.Todo) error {
	return s.db.WithContext(ctx).Save(todo).Error
}

func (s dbTodoStore) DeleteTodo(ctx context.Context, todo *model.Todo) error {
	return s.db.WithContext(ctx).Delete(&model.Todo{}, todo.ID).Error
}
