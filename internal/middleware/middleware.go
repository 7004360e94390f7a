package middleware

import (
	"fmt"
	"strings"
	"time"

	"catalog_go/internal/core/config"
	"catalog_go/internal/core/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RequestIDMiddleware 请求 ID 中间件
// Honors an incoming X-Request-ID, otherwise assigns a fresh UUID, and
// echoes it back on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// LoggerMiddleware 请求日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.Info("request",
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.Int("status", status),
			logger.Duration("latency", latency),
			logger.String("client_ip", c.ClientIP()),
			logger.String("request_id", c.GetString("request_id")),
		)
	}
}

// RecoveryMiddleware 异常恢复中间件
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					logger.String("error", fmt.Sprintf("%v", err)),
					logger.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(500, gin.H{
					"code": 500,
					"msg":  "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware 跨域中间件
// Origins come from security.allow_origins; an empty list allows all.
func CORSMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	allowed := cfg.Security.AllowOrigins

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		ok := len(allowed) == 0
		for _, o := range allowed {
			if o == origin || o == "*" {
				ok = true
				break
			}
		}

		if ok {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// UserClaims 自定义 JWT Claims
type UserClaims struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	jwt.RegisteredClaims
}

// JWTMW JWT中间件
func JWTMW(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  "unauthorized",
			})
			return
		}

		if !strings.HasPrefix(token, "Bearer ") {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  "invalid token format: missing 'Bearer ' prefix",
			})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := ParseJWT(token, cfg.Secret)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{
				"code": 401,
				"msg":  "invalid token",
			})
			return
		}

		if uid, ok := claims["uid"].(float64); ok {
			c.Set("uid", int64(uid))
		}
		if role, ok := claims["role"].(float64); ok {
			c.Set("role", int(role))
		}
		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}

		c.Next()
	}
}

// ParseJWT 解析JWT
func ParseJWT(tokenString, secret string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return map[string]interface{}(claims), nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GenerateToken 生成 JWT Token
func GenerateToken(uid int64, username string, role int, cfg *config.JWTConfig) (string, error) {
	claims := UserClaims{
		UID:      uid,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.Expiry) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "catalog_go",
			Subject:   fmt.Sprintf("%d", uid),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
