package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/salepoint/salepoint/internal/shared"
)

type mockRepository struct {
	users  map[string]User
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: map[string]User{}, nextID: 1}
}

func (m *mockRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	u, ok := m.users[username]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, u User) (User, error) {
	if _, exists := m.users[u.Username]; exists {
		return User{}, shared.ErrDuplicate
	}
	u.ID = m.nextID
	m.nextID++
	u.IsActive = true
	m.users[u.Username] = u
	return u, nil
}

func (m *mockRepository) List(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func seedUser(t *testing.T, repo *mockRepository, username, password string, role Role, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users[username] = User{
		ID:           repo.nextID,
		Username:     username,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     active,
	}
	repo.nextID++
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ada", "correct horse", RoleManager, true)
	svc := NewService(repo, nil)

	user, err := svc.Authenticate(context.Background(), "ada", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, RoleManager, user.Role)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ada", "correct horse", RoleManager, true)
	seedUser(t, repo, "former", "left in march", RoleCashier, false)
	svc := NewService(repo, nil)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "ada", "wrong"},
		{"unknown user", "nobody", "anything"},
		{"inactive user", "former", "left in march"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.username, tc.password)
			assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "grace",
		FullName: "Grace H",
		Password: "s3cret-enough",
		Role:     RoleCashier,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-enough", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-enough")))

	// The stored hash authenticates.
	got, err := svc.Authenticate(context.Background(), "grace", "s3cret-enough")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "ada", "pw", RoleAdmin, true)
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "ada", FullName: "Other Ada", Password: "password1", Role: RoleCashier,
	})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleCashier.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}
