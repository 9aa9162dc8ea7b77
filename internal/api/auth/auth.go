package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/daniellerochac/todo-teste/internal/model"
	"github.com/daniellerochac/todo-teste/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidToken 表示签名不匹配、载荷损坏或令牌已过期。
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSubject 表示令牌载荷缺少 sub 声明。
	ErrMissingSubject = errors.New("token missing subject")
)

// HashPassword 生成密码的 bcrypt 哈希。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验明文密码与哈希是否匹配。
//
// 哈希格式非法时同样返回 false，不会 panic。
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenService 负责签发与校验访问令牌。
//
// 校验是无状态的，只依赖共享密钥与当前时间。
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService 创建令牌服务。
//
// algorithm 是签名算法标识（如 "HS256"），未识别时回退到 HS256；
// ttlMinutes <= 0 时使用 30 分钟。
func NewTokenService(secret string, algorithm string, ttlMinutes int) *TokenService {
	method := jwt.GetSigningMethod(strings.TrimSpace(algorithm))
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// Issue 为 subject 签发一个带过期时间的令牌。
func (t *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

// Parse 校验令牌并返回其 subject。
//
// 签名不符、载荷损坏或已过期返回 ErrInvalidToken，缺少 sub 返回 ErrMissingSubject。
func (t *TokenService) Parse(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{t.method.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// UserFinder 按邮箱查找用户，查不到时返回 gorm.ErrRecordNotFound。
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Handler 提供登录接口。
type Handler struct {
	users  UserFinder
	tokens *TokenService
	logger *slog.Logger
}

// NewHandler 创建 Auth Handler。
func NewHandler(users UserFinder, tokens *TokenService, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type tokenRequest struct {
	Username string `form:"username" binding:"required"` // 表单里的 username 字段传邮箱
	Password string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token 校验邮箱与密码并签发访问令牌。
//
// POST /auth/token（表单编码）
func (h *Handler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// 邮箱按注册时的原样比对，不做大小写归一
	email := req.Username
	user, err := h.users.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && h.logger != nil {
			h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		}
		metrics.LoginFailureTotal.Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}

	if !VerifyPassword(req.Password, user.Password) {
		metrics.LoginFailureTotal.Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("sign token failed", slog.String("email", email), slog.String("error", err.Error()))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "sign token failed"})
		return
	}

	metrics.TokenIssuedTotal.Inc()
	if h.logger != nil {
		h.logger.Info("user logged in", slog.String("email", email))
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}
