package service

import (
	"context"

	"catalog_go/internal/core/logger"
	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
	"catalog_go/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService 管理用户业务服务
type UserService struct {
	repo repository.UserRepository
}

// NewUserService 创建 UserService 实例
func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Login 校验管理账号密码
func (s *UserService) Login(ctx context.Context, username, password string) (*model.UserDTO, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil || user.Status != 0 {
		return nil, apperr.NewAppError(apperr.CodeUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.NewAppError(apperr.CodeUnauthorized, "invalid credentials")
	}

	return &model.UserDTO{
		UID:      user.UID,
		Username: user.Username,
		Role:     user.Role,
		Status:   user.Status,
	}, nil
}

// Register 创建管理账号
func (s *UserService) Register(ctx context.Context, username, password string) (*model.UserDTO, error) {
	exist, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if exist != nil {
		return nil, apperr.Conflict("username already exists: " + username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.WrapError(err, apperr.CodeInternalError)
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("username already exists: " + username)
		}
		logger.Error("create user failed", logger.String("error", err.Error()))
		return nil, apperr.Storage(err)
	}

	return &model.UserDTO{
		UID:      id,
		Username: username,
	}, nil
}
