package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/daniellerochac/todo-teste/internal/model"
	"github.com/daniellerochac/todo-teste/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// todoRequest 创建/更新待办的请求体。
type todoRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Status      model.TodoStatus `json:"status" binding:"required,oneof=pending running done"`
}

// todoPublic 待办的对外视图。
type todoPublic struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.TodoStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DoneAt      *time.Time       `json:"done_at"`
}

func toTodoPublic(todo *model.Todo) todoPublic {
	return todoPublic{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
		DoneAt:      todo.DoneAt,
	}
}

// applyDoneAt 维护 done_at 与状态的一致性：
// 进入 done 时打上完成时间，离开 done 时清空，其余情况保持不变。
func applyDoneAt(todo *model.Todo) {
	if todo.Status == model.TodoStatusDone && todo.DoneAt == nil {
		now := time.Now()
		todo.DoneAt = &now
	}
	if todo.Status != model.TodoStatusDone && todo.DoneAt != nil {
		todo.DoneAt = nil
	}
}

// handleCreateTodo 为当前用户创建一条待办。
//
// POST /todo
func (s *Server) handleCreateTodo(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user := currentUser(c)

	todo := model.Todo{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	applyDoneAt(&todo)

	if err := s.todos.CreateTodo(c.Request.Context(), &todo); err != nil {
		s.logger.Error("create todo failed", slog.Uint64("user_id", uint64(user.ID)), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "create todo failed"})
		return
	}

	metrics.TodoCreatedTotal.Inc()
	c.JSON(http.StatusOK, toTodoPublic(&todo))
}

// handleListTodos 返回当前用户的待办列表。
//
// GET /todo?title=&description=&status=&offset=0&limit=100
//
// 提供的过滤条件全部取交集，分页在过滤之后进行。
func (s *Server) handleListTodos(c *gin.Context) {
	user := currentUser(c)

	status := model.TodoStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid status"})
		return
	}

	filters := TodoFilters{
		Title:       c.Query("title"),
		Description: c.Query("description"),
		Status:      status,
		Offset:      parseQueryInt(c, "offset", 0),
		Limit:       parseQueryInt(c, "limit", 100),
	}

	todos, err := s.todos.ListTodos(c.Request.Context(), user.ID, filters)
	if err != nil {
		s.logger.Error("list todos failed", slog.Uint64("user_id", uint64(user.ID)), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "list todos failed"})
		return
	}

	publics := make([]todoPublic, 0, len(todos))
	for i := range todos {
		publics = append(publics, toTodoPublic(&todos[i]))
	}
	c.JSON(http.StatusOK, gin.H{"todos": publics})
}

// handleUpdateTodo 覆盖更新一条属于当前用户的待办。
//
// PUT /todo/:id
func (s *Server) handleUpdateTodo(c *gin.Context) {
	user := currentUser(c)
	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
		return
	}

	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	todo, err := s.todos.GetTodo(c.Request.Context(), user.ID, uint(todoID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
			return
		}
		s.logger.Error("query todo failed", slog.Uint64("todo_id", todoID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "query todo failed"})
		return
	}

	todo.Title = req.Title
	todo.Description = req.Description
	todo.Status = req.Status
	applyDoneAt(todo)

	if err := s.todos.SaveTodo(c.Request.Context(), todo); err != nil {
		s.logger.Error("update todo failed", slog.Uint64("todo_id", todoID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "update todo failed"})
		return
	}

	c.JSON(http.StatusOK, toTodoPublic(todo))
}

// handleDeleteTodo 删除一条属于当前用户的待办。
//
// DELETE /todo/:id
func (s *Server) handleDeleteTodo(c *gin.Context) {
	user := currentUser(c)
	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
		return
	}

	todo, err := s.todos.GetTodo(c.Request.Context(), user.ID, uint(todoID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
			return
		}
		s.logger.Error("query todo failed", slog.Uint64("todo_id", todoID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "query todo failed"})
		return
	}

	if err := s.todos.DeleteTodo(c.Request.Context(), todo); err != nil {
		s.logger.Error("delete todo failed", slog.Uint64("todo_id", todoID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "delete todo failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task has been deleted successfully"})
}
