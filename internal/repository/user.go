package repository

import (
	"context"
	"database/sql"

	"catalog_go/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository 管理用户数据访问接口
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (int64, error)
}

// userRepository 管理用户数据访问实现
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, password, role, status)
		 VALUES ($1, $2, $3, $4) RETURNING uid`,
		user.Username, user.Password, user.Role, user.Status).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
