// internal/devauth/user.go
package devauth

import (
	"strings"
	"sync"

	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/session"

	"golang.org/x/crypto/bcrypt"
)

// User is a dev-server account. Passwords are stored as bcrypt hashes even
// here so the login path mirrors production behavior.
type User struct {
	ID           int64
	Email        string
	Name         string
	Role         session.Role
	PasswordHash []byte
}

type UserStore struct {
	mu     sync.RWMutex
	byID   map[int64]*User
	email  map[string]*User
	nextID int64
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:   make(map[int64]*User),
		email:  make(map[string]*User),
		nextID: 1,
	}
}

// Seed adds the three demo accounts the storefront roles map to. The
// password is the same for all of them: "fittech-dev".
func (s *UserStore) Seed() error {
	seeds := []struct {
		email string
		name  string
		role  session.Role
	}{
		{"admin@fittech.local", "Dev Admin", session.RoleAdmin},
		{"staff@fittech.local", "Dev Staff", session.RoleStaff},
		{"user@fittech.local", "Dev User", session.RoleUser},
	}
	for _, seed := range seeds {
		if _, err := s.Create(seed.email, "fittech-dev", seed.name, seed.role); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserStore) Create(email, password, name string, role session.Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "email and password are required")
	}
	if role == "" {
		role = session.RoleUser
	}
	if name == "" {
		name = email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, xerrors.Wrap(err, "hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.email[email]; exists {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "email already registered")
	}

	u := &User{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	}
	s.nextID++
	s.byID[u.ID] = u
	s.email[email] = u
	return u, nil
}

// Authenticate checks credentials and returns the matching user. It does
// not distinguish unknown email from wrong password.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.email[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return nil, xerrors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}
	return u, nil
}

func (s *UserStore) Get(id int64) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	return u, ok
}
