package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/daniellerochac/todo-teste/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type mockTodoStore struct {
	createFunc func(ctx context.Context, todo *model.Todo) error
	listFunc   func(ctx context.Context, userID uint, filters TodoFilters) ([]model.Todo, error)
	getFunc    func(ctx context.Context, userID, todoID uint) (*model.Todo, error)
	saveFunc   func(ctx context.Context, todo *model.Todo) error
	deleteFunc func(ctx context.Context, todo *model.Todo) error

	createCalls int
	saveCalls   int
	deleteCalls int
}

func (m *mockTodoStore) CreateTodo(ctx context.Context, todo *model.Todo) error {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, todo)
	}
	return nil
}

func (m *mockTodoStore) ListTodos(ctx context.Context, userID uint, filters TodoFilters) ([]model.Todo, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filters)
	}
	return []model.Todo{}, nil
}

func (m *mockTodoStore) GetTodo(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, todoID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTodoStore) SaveTodo(ctx context.Context, todo *model.Todo) error {
	m.saveCalls++
	if m.saveFunc != nil {
		return m.saveFunc(ctx, todo)
	}
	return nil
}

func (m *mockTodoStore) DeleteTodo(ctx context.Context, todo *model.Todo) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, todo)
	}
	return nil
}

func newTodoRouter(store *mockTodoStore) (*gin.Engine, *Server) {
	s := newTestServer(nil, store)
	owner := &model.User{ID: 1, Username: "Teste", Email: "test@test.com"}

	r := gin.New()
	r.POST("/todo", asUser(owner, s.handleCreateTodo))
	r.GET("/todo", asUser(owner, s.handleListTodos))
	r.PUT("/todo/:id", asUser(owner, s.handleUpdateTodo))
	r.DELETE("/todo/:id", asUser(owner, s.handleDeleteTodo))
	return r, s
}

func TestCreateTodo_Pending(t *testing.T) {
	var stored model.Todo
	store := &mockTodoStore{
		createFunc: func(ctx context.Context, todo *model.Todo) error {
			todo.ID = 1
			stored = *todo
			return nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodPost, "/todo", map[string]string{
		"title":       "test todo",
		"description": "test todo description",
		"status":      "pending",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.createCalls != 1 {
		t.Fatalf("expected create to be called")
	}
	if stored.UserID != 1 {
		t.Fatalf("todo must belong to the authenticated owner, got user_id=%d", stored.UserID)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["title"] != "test todo" || resp["status"] != "pending" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if resp["done_at"] != nil {
		t.Fatalf("done_at must be null for pending todo, got %v", resp["done_at"])
	}
}

func TestCreateTodo_DoneSetsDoneAt(t *testing.T) {
	store := &mockTodoStore{
		createFunc: func(ctx context.Context, todo *model.Todo) error {
			todo.ID = 1
			return nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodPost, "/todo", map[string]string{
		"title":       "already finished",
		"description": "",
		"status":      "done",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["done_at"] == nil {
		t.Fatalf("done_at must be set when created as done")
	}
}

func TestCreateTodo_InvalidStatus(t *testing.T) {
	store := &mockTodoStore{}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodPost, "/todo", map[string]string{
		"title":       "test todo",
		"description": "",
		"status":      "bogus",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if store.createCalls != 0 {
		t.Fatalf("create must not run on invalid status")
	}
}

func TestListTodos_FiltersPassedThrough(t *testing.T) {
	var gotUserID uint
	var gotFilters TodoFilters
	store := &mockTodoStore{
		listFunc: func(ctx context.Context, userID uint, filters TodoFilters) ([]model.Todo, error) {
			gotUserID = userID
			gotFilters = filters
			return []model.Todo{
				{ID: 1, UserID: userID, Title: "Task 1", Status: model.TodoStatusDone},
				{ID: 2, UserID: userID, Title: "Task 2", Status: model.TodoStatusDone},
			}, nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodGet, "/todo?title=Task&description=desc&status=done&offset=1&limit=2", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUserID != 1 {
		t.Fatalf("listing must be scoped to the owner, got user_id=%d", gotUserID)
	}
	want := TodoFilters{Title: "Task", Description: "desc", Status: model.TodoStatusDone, Offset: 1, Limit: 2}
	if gotFilters != want {
		t.Fatalf("expected filters %+v, got %+v", want, gotFilters)
	}

	var resp struct {
		Todos []todoPublic `json:"todos"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(resp.Todos))
	}
}

func TestListTodos_Defaults(t *testing.T) {
	var gotFilters TodoFilters
	store := &mockTodoStore{
		listFunc: func(ctx context.Context, userID uint, filters TodoFilters) ([]model.Todo, error) {
			gotFilters = filters
			return []model.Todo{}, nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodGet, "/todo", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotFilters.Offset != 0 || gotFilters.Limit != 100 {
		t.Fatalf("expected default offset=0 limit=100, got %+v", gotFilters)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"todos":[]`)) {
		t.Fatalf("expected empty todos array, got %s", w.Body.String())
	}
}

func TestListTodos_InvalidStatus(t *testing.T) {
	store := &mockTodoStore{}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodGet, "/todo?status=bogus", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateTodo_TransitionToDone(t *testing.T) {
	var saved model.Todo
	store := &mockTodoStore{
		getFunc: func(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
			return &model.Todo{ID: todoID, UserID: userID, Title: "test todo", Status: model.TodoStatusRunning}, nil
		},
		saveFunc: func(ctx context.Context, todo *model.Todo) error {
			saved = *todo
			return nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodPut, "/todo/1", map[string]string{
		"title":       "updated todo",
		"description": "updated todo description",
		"status":      "done",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if saved.DoneAt == nil {
		t.Fatalf("done_at must be set when transitioning into done")
	}
	if saved.Title != "updated todo" {
		t.Fatalf("expected title overwritten, got %q", saved.Title)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["done_at"] == nil {
		t.Fatalf("response done_at must be non-null")
	}
}

func TestUpdateTodo_TransitionAwayFromDone(t *testing.T) {
	doneAt := time.Now().Add(-time.Hour)
	var saved model.Todo
	store := &mockTodoStore{
		getFunc: func(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
			return &model.Todo{ID: todoID, UserID: userID, Title: "test todo", Status: model.TodoStatusDone, DoneAt: &doneAt}, nil
		},
		saveFunc: func(ctx context.Context, todo *model.Todo) error {
			saved = *todo
			return nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodPut, "/todo/1", map[string]string{
		"title":       "reopened",
		"description": "",
		"status":      "pending",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if saved.DoneAt != nil {
		t.Fatalf("done_at must be cleared when leaving done")
	}
}

func TestUpdateTodo_DoneStaysDone(t *testing.T) {
	doneAt := time.Now().Add(-time.Hour)
	var saved model.Todo
	store := &mockTodoStore{
		getFunc: func(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
			return &model.Todo{ID: todoID, UserID: userID, Title: "test todo", Status: model.TodoStatusDone, DoneAt: &doneAt}, nil
		},
		saveFunc: func(ctx context.Context, todo *model.Todo) error {
			saved = *todo
			return nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodPut, "/todo/1", map[string]string{
		"title":       "still done",
		"description": "",
		"status":      "done",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if saved.DoneAt == nil || !saved.DoneAt.Equal(doneAt) {
		t.Fatalf("done_at must keep its original value when staying done")
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	store := &mockTodoStore{}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodPut, "/todo/9999", map[string]string{
		"title":       "test title",
		"description": "test description",
		"status":      "pending",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Not Found")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if store.saveCalls != 0 {
		t.Fatalf("save must not run for missing todo")
	}
}

func TestDeleteTodo_Normal(t *testing.T) {
	store := &mockTodoStore{
		getFunc: func(ctx context.Context, userID, todoID uint) (*model.Todo, error) {
			return &model.Todo{ID: todoID, UserID: userID, Title: "delete to do", Status: model.TodoStatusPending}, nil
		},
	}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodDelete, "/todo/1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Task has been deleted successfully")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if store.deleteCalls != 1 {
		t.Fatalf("expected delete to be called once")
	}
}

func TestDeleteTodo_NotFound(t *testing.T) {
	store := &mockTodoStore{}
	r, _ := newTodoRouter(store)

	w := doJSON(r, http.MethodDelete, "/todo/100", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Not Found")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if store.deleteCalls != 0 {
		t.Fatalf("delete must not run for missing todo")
	}
}
