package model

import "time"

// User 管理用户模型 (admin accounts for the mgt API)
type User struct {
	UID       int64     `db:"uid"`
	Username  string    `db:"username"`
	Password  string    `db:"password"` // bcrypt hash
	Role      int       `db:"role"`
	Status    int       `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UserDTO 用户数据传输对象
type UserDTO struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	Status   int    `json:"status"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
