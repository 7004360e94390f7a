package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
)

// fakeUserRepo 测试用 UserRepository
type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return f.users[username], nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) (int64, error) {
	id := int64(len(f.users) + 1)
	user.UID = id
	f.users[user.Username] = user
	return id, nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*model.User)}
	svc := NewUserService(repo)
	ctx := context.Background()

	dto, err := svc.Register(ctx, "admin", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "admin", dto.Username)
	assert.NotZero(t, dto.UID)
	// the stored password is a hash, never the plaintext
	assert.NotEqual(t, "secret-pass", repo.users["admin"].Password)

	logged, err := svc.Login(ctx, "admin", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, dto.UID, logged.UID)
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*model.User)}
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin", "secret-pass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin", "wrong-pass")
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))

	_, err = svc.Login(ctx, "nobody", "secret-pass")
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*model.User)}
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin", "secret-pass")
	require.NoError(t, err)
	repo.users["admin"].Status = 1

	_, err = svc.Login(ctx, "admin", "secret-pass")
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*model.User)}
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin", "secret-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "admin", "other-pass")
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}
