package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/daniellerochac/todo-teste/internal/api/auth"
	"github.com/daniellerochac/todo-teste/internal/model"
	"github.com/daniellerochac/todo-teste/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// userRequest 创建/更新用户的请求体。
type userRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userPublic 用户的对外视图，永远不包含密码。
type userPublic struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserPublic(user *model.User) userPublic {
	return userPublic{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// handleCreateUser 注册新用户。
//
// POST /users
//
// 用户名与邮箱各自全局唯一；两者同时冲突时用户名错误优先返回。
// 密码总是在服务端做 bcrypt 哈希后入库，不接受客户端预哈希。
func (s *Server) handleCreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	existing, err := s.users.FindByUsernameOrEmail(c.Request.Context(), req.Username, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("query user failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "query user failed"})
		return
	}
	if existing != nil {
		if existing.Username == req.Username {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "hash password failed"})
		return
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.users.CreateUser(c.Request.Context(), &user); err != nil {
		s.logger.Error("create user failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "create user failed"})
		return
	}

	metrics.UserCreatedTotal.Inc()
	s.logger.Info("user registered", slog.String("username", user.Username), slog.String("email", user.Email))
	c.JSON(http.StatusCreated, toUserPublic(&user))
}

// handleListUsers 返回按插入顺序分页的用户列表。
//
// GET /users?skip=0&limit=100
func (s *Server) handleListUsers(c *gin.Context) {
	skip := parseQueryInt(c, "skip", 0)
	limit := parseQueryInt(c, "limit", 100)

	users, err := s.users.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		s.logger.Error("list users failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "list users failed"})
		return
	}

	publics := make([]userPublic, 0, len(users))
	for i := range users {
		publics = append(publics, toUserPublic(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": publics})
}

// handleUpdateUser 更新账户资料，仅允许本人操作。
//
// PUT /users/:id
func (s *Server) handleUpdateUser(c *gin.Context) {
	user := currentUser(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || user.ID != uint(targetID) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not enough permission"})
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "hash password failed"})
		return
	}

	user.Username = req.Username
	user.Email = req.Email
	user.Password = hash
	if err := s.users.SaveUser(c.Request.Context(), user); err != nil {
		s.logger.Error("update user failed", slog.Uint64("user_id", uint64(user.ID)), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "update user failed"})
		return
	}

	c.JSON(http.StatusOK, toUserPublic(user))
}

// handleDeleteUser 注销账户，连同名下待办一起删除，仅允许本人操作。
//
// DELETE /users/:id
func (s *Server) handleDeleteUser(c *gin.Context) {
	user := currentUser(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || user.ID != uint(targetID) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not enough permission"})
		return
	}

	if err := s.users.DeleteUser(c.Request.Context(), user); err != nil {
		s.logger.Error("delete user failed", slog.Uint64("user_id", uint64(user.ID)), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "delete user failed"})
		return
	}

	s.logger.Info("user deleted", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusOK, gin.H{"message": "User deleted!"})
}
