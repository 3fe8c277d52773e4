package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sgthedux/sgth-sub001/internal/auth"
	autherrors "github.com/sgthedux/sgth-sub001/internal/auth/errors"
	"github.com/sgthedux/sgth-sub001/internal/domain"
)

type fakeAuthRepository struct {
	createFn     func(ctx context.Context, user *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRBACService struct {
	loadCalls int
}

func (f *fakeRBACService) LoadPolicy() error {
	f.loadCalls++
	return nil
}

func (f *fakeRBACService) Enforce(req domain.EnforceRequest) (bool, error) {
	return true, nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	activeUser := func(t *testing.T) *auth.User {
		return &auth.User{
			ID:       uuid.New(),
			Name:     "Gloria Hernández",
			Email:    "gloria@sgth.test",
			Password: hashed(t, "s3cret-pass"),
			Role:     auth.RoleHR,
			IsActive: true,
		}
	}

	t.Run("success returns tokens and reloads policy", func(t *testing.T) {
		user := activeUser(t)
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		rbacSvc := &fakeRBACService{}
		svc := auth.NewService(repo, rbacSvc)

		access, refresh, resp, err := svc.Login(ctx, user.Email, "s3cret-pass")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID.String(), resp.ID)
		assert.Equal(t, auth.RoleHR, resp.Role)
		assert.Equal(t, 1, rbacSvc.loadCalls)
	})

	t.Run("wrong password", func(t *testing.T) {
		user := activeUser(t)
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBACService{})

		_, _, _, err := svc.Login(ctx, user.Email, "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{})

		_, _, _, err := svc.Login(ctx, "nadie@sgth.test", "s3cret-pass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		user := activeUser(t)
		user.IsActive = false
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBACService{})

		_, _, _, err := svc.Login(ctx, user.Email, "s3cret-pass")
		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{})

		_, _, _, err := svc.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("round trip through login", func(t *testing.T) {
		user := &auth.User{
			ID:       uuid.New(),
			Name:     "Gloria Hernández",
			Email:    "gloria@sgth.test",
			Password: hashed(t, "s3cret-pass"),
			Role:     auth.RoleHR,
			IsActive: true,
		}
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				assert.Equal(t, user.ID, id)
				return user, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBACService{})

		_, refresh, _, err := svc.Login(ctx, user.Email, "s3cret-pass")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.Email, resp.Email)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed id", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{})

		_, err := svc.GetMe(ctx, "nope")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{})

		_, err := svc.GetMe(ctx, uuid.New().String())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("normalizes email and defaults role to employee", func(t *testing.T) {
		var created *auth.User
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		rbacSvc := &fakeRBACService{}
		svc := auth.NewService(repo, rbacSvc)

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "  Nuevo@SGTH.Test ",
			Name:     "Nuevo Usuario",
			Password: "longenough",
			Role:     "superuser",
		})
		assert.NoError(t, err)
		assert.Equal(t, "nuevo@sgth.test", created.Email)
		assert.Equal(t, auth.RoleEmployee, created.Role)
		assert.Equal(t, auth.RoleEmployee, resp.Role)
		assert.NotEqual(t, "longenough", created.Password, "password must be stored hashed")
		assert.Equal(t, 1, rbacSvc.loadCalls)
	})

	t.Run("accepts hr role", func(t *testing.T) {
		var created *auth.User
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		svc := auth.NewService(repo, &fakeRBACService{})

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "rrhh@sgth.test",
			Name:     "Gestora RRHH",
			Password: "longenough",
			Role:     "hr",
		})
		assert.NoError(t, err)
		assert.Equal(t, auth.RoleHR, created.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				return gorm.ErrDuplicatedKey
			},
		}
		svc := auth.NewService(repo, &fakeRBACService{})

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "gloria@sgth.test",
			Name:     "Gloria",
			Password: "longenough",
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}
