package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/auth"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

// memUsers repositorio en memoria.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]entity.User
	fails error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails != nil {
		return nil, m.fails
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = *u
	return nil
}

func newAuth(repo *memUsers) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "stock-pro"}).
		WithHashCost(bcrypt.MinCost)
}

func seedUser(t *testing.T, uc *auth.AuthUseCase) *dto.UserResponse {
	t.Helper()
	u, err := uc.RegisterUser(context.Background(), dto.CreateUserRequest{
		Username: " Andrea ", Password: "clave123", Role: entity.RoleAnalista,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterUser(t *testing.T) {
	repo := newMemUsers()
	uc := newAuth(repo)
	u := seedUser(t, uc)

	assert.Equal(t, "andrea", u.Username, "username normalizado")
	assert.Equal(t, "andrea", u.Name)
	assert.Equal(t, "active", u.Status)

	_, err := uc.RegisterUser(context.Background(), dto.CreateUserRequest{Username: "ANDREA", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = uc.RegisterUser(context.Background(), dto.CreateUserRequest{Username: "x", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(context.Background(), dto.CreateUserRequest{Username: "y", Password: "123456", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	uc := newAuth(newMemUsers())
	u := seedUser(t, uc)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "andrea", Password: "clave123"})
	require.NoError(t, err)
	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "andrea", claims.Username)
	assert.Equal(t, entity.RoleAnalista, claims.Role)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "andrea", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newMemUsers()
	uc := newAuth(repo)
	u := seedUser(t, uc)

	stored, _ := repo.GetByID(context.Background(), u.ID)
	stored.Status = "inactive"
	require.NoError(t, repo.Update(context.Background(), stored))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "andrea", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateProfile(t *testing.T) {
	repo := newMemUsers()
	uc := newAuth(repo)
	u := seedUser(t, uc)
	_, err := uc.RegisterUser(context.Background(), dto.CreateUserRequest{Username: "bruno", Password: "clave123"})
	require.NoError(t, err)

	_, err = uc.UpdateProfile(context.Background(), u.ID, dto.UpdateProfileRequest{Username: "Bruno"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = uc.UpdateProfile(context.Background(), u.ID, dto.UpdateProfileRequest{NewPassword: "nueva-clave", CurrentPassword: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	out, err := uc.UpdateProfile(context.Background(), u.ID, dto.UpdateProfileRequest{
		Username:        "andrea.r",
		Name:            "Andrea R.",
		AvatarURL:       "https://cdn.example.com/a.png",
		CurrentPassword: "clave123",
		NewPassword:     "nueva-clave",
	})
	require.NoError(t, err)
	assert.Equal(t, "andrea.r", out.Username)
	assert.Equal(t, "Andrea R.", out.Name)
	assert.Equal(t, "https://cdn.example.com/a.png", out.AvatarURL)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "andrea.r", Password: "nueva-clave"})
	assert.NoError(t, err)

	_, err = uc.UpdateProfile(context.Background(), "no-existe", dto.UpdateProfileRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMe(t *testing.T) {
	repo := newMemUsers()
	uc := newAuth(repo)
	u := seedUser(t, uc)

	me, err := uc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	repo.fails = errors.New("db caída")
	_, err = uc.Me(context.Background(), u.ID)
	assert.Error(t, err)
}
