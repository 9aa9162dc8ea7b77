package model

import (
	"time"
)

// TodoStatus 表示待办事项的状态。
type TodoStatus string

const (
	TodoStatusPending TodoStatus = "pending" // 待处理
	TodoStatusRunning TodoStatus = "running" // 进行中
	TodoStatusDone    TodoStatus = "done"    // 已完成
)

// Valid 判断状态是否是已知的取值。
func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusPending, TodoStatusRunning, TodoStatusDone:
		return true
	}
	return false
}

// Todo 表示一条属于某个用户的待办事项。
//
// DoneAt 只在状态处于 done 时非空：状态切换到 done 时写入当前时间，
// 离开 done 时清空。任意状态之间都允许切换，没有终态。
type Todo struct {
	ID        uint      `gorm:"primaryKey"` // 待办唯一标识
	CreatedAt time.Time // 创建时间
	UpdatedAt time.Time // 最近一次修改时间

	UserID uint `gorm:"not null"`          // 所属用户 ID
	User   User `gorm:"foreignKey:UserID"` // 所属用户

	Title       string     `gorm:"not null"`                             // 标题
	Description string     // 描述
	Status      TodoStatus `gorm:"type:varchar(16);default:pending"` // 状态: pending / running / done
	DoneAt      *time.Time // 完成时间（仅 done 状态下非空）
}
