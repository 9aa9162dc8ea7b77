package api

import (
	"context"
	"testing"

	"github.com/daniellerochac/todo-teste/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db, mock
}

func TestDBTodoStore_ListTodos_AllFiltersCompose(t *testing.T) {
	db, mock := newMockDB(t)
	store := dbTodoStore{db: db}

	mock.ExpectQuery("SELECT \\* FROM `todos` WHERE user_id = \\? AND title LIKE BINARY \\? AND description LIKE BINARY \\? AND status = \\? ORDER BY id ASC LIMIT \\? OFFSET \\?").
		WithArgs(1, "%Task%", "%desc%", "done", 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "status"}).
			AddRow(3, 1, "Task 3", "done").
			AddRow(4, 1, "Task 4", "done"))

	todos, err := store.ListTodos(context.Background(), 1, TodoFilters{
		Title:       "Task",
		Description: "desc",
		Status:      model.TodoStatusDone,
		Offset:      1,
		Limit:       2,
	})
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestDBTodoStore_ListTodos_OnlyProvidedFilters(t *testing.T) {
	db, mock := newMockDB(t)
	store := dbTodoStore{db: db}

	// 没有提供的过滤条件不得出现在 SQL 里
	mock.ExpectQuery("SELECT \\* FROM `todos` WHERE user_id = \\? AND title LIKE BINARY \\? ORDER BY id ASC LIMIT \\?").
		WithArgs(1, "%Task%", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "status"}).
			AddRow(1, 1, "Task 1", "pending"))

	todos, err := store.ListTodos(context.Background(), 1, TodoFilters{
		Title: "Task",
		Limit: 100,
	})
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(todos))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestDBUserStore_DeleteUser_CascadesInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	store := dbUserStore{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `todos` WHERE user_id = \\?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `users` WHERE `users`.`id` = \\?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.DeleteUser(context.Background(), &model.User{ID: 1}); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
