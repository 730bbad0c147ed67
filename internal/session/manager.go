// Package session owns the authenticated-session lifecycle: credential
// exchange with the auth API, mirroring of session fields into persistent
// storage, and token rotation. Storage is the source of truth at startup;
// the in-memory snapshot never claims a login the stored keys cannot back.
package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"fittech-client/internal/api"
	"fittech-client/internal/storage"

	"go.uber.org/zap"
)

// Storage keys for mirrored session fields. Shared with the frontend's
// local state, so the names are fixed.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserID       = "userId"
	keyUserRole     = "userRole"
	keyUserEmail    = "userEmail"
	keyUserName     = "userName"
)

var sessionKeys = []string{
	keyAccessToken, keyRefreshToken, keyUserID, keyUserRole, keyUserEmail, keyUserName,
}

// AuthError carries the user-displayable message for a failed auth
// operation.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Cause }

type Manager struct {
	mu   sync.Mutex // guards snap
	snap Snapshot

	// refreshMu serializes token exchanges so two racing 401s produce one
	// refresh; the loser re-reads the rotated pair instead of spending it.
	refreshMu sync.Mutex

	st     storage.Storage
	client *api.Client
	logger *zap.Logger
}

func NewManager(st storage.Storage, client *api.Client, logger *zap.Logger) *Manager {
	return &Manager{
		st:     st,
		client: client,
		snap:   Snapshot{Phase: PhaseAnonymous},
		logger: logger,
	}
}

// Initialize restores the session from storage. The session counts as
// logged in iff both tokens are present; a half-written pair is cleared
// rather than trusted.
func (m *Manager) Initialize(ctx context.Context) {
	access := m.read(ctx, keyAccessToken)
	refresh := m.read(ctx, keyRefreshToken)

	if access == "" || refresh == "" {
		if access != "" || refresh != "" {
			m.logger.Warn("orphaned token found in storage, clearing session")
			m.clear(ctx)
		}
		m.setSnapshot(Snapshot{Phase: PhaseAnonymous})
		return
	}

	m.setSnapshot(Snapshot{
		Phase:        PhaseAuthenticated,
		UserID:       m.read(ctx, keyUserID),
		UserName:     m.read(ctx, keyUserName),
		UserEmail:    m.read(ctx, keyUserEmail),
		Role:         Role(m.read(ctx, keyUserRole)),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

type loginResponse struct {
	UserID       int64  `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserRole     string `json:"userRole"`
	UserEmail    string `json:"userEmail"`
	UserName     string `json:"userName"`
}

// snapshot maps a login response onto session state, applying explicit
// defaults for fields the server may omit.
func (r loginResponse) snapshot(requestEmail string) Snapshot {
	email := r.UserEmail
	if email == "" {
		email = requestEmail
	}
	name := r.UserName
	if name == "" {
		name = email
	}
	role := Role(r.UserRole)
	if role == "" {
		role = RoleUser
	}
	return Snapshot{
		Phase:        PhaseAuthenticated,
		UserID:       strconv.FormatInt(r.UserID, 10),
		UserName:     name,
		UserEmail:    email,
		Role:         role,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
}

// Login exchanges credentials for a token pair. On success the session
// fields are persisted and the returned id identifies the user. On failure
// nothing is persisted and the session returns to anonymous with the
// server's message recorded.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	m.setSnapshot(Snapshot{Phase: PhaseAuthenticating})

	var resp loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := m.client.Do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		msg := displayMessage(err, "Login failed.")
		m.setSnapshot(Snapshot{Phase: PhaseAnonymous, LastError: msg})
		return "", &AuthError{Message: msg, Cause: err}
	}

	snap := resp.snapshot(email)
	m.persist(ctx, snap)
	m.setSnapshot(snap)

	m.logger.Info("login succeeded",
		zap.String("user_id", snap.UserID),
		zap.String("role", string(snap.Role)),
	)
	return snap.UserID, nil
}

type RegisterResult struct {
	UserID int64 `json:"userId"`
	Role   Role  `json:"userRole"`
}

// Register creates an account without authenticating the caller: no tokens
// are issued or persisted, the session phase does not change.
func (m *Manager) Register(ctx context.Context, email, password string, role Role) (RegisterResult, error) {
	var result RegisterResult
	body := map[string]string{"email": email, "password": password, "role": string(role)}
	if err := m.client.Do(ctx, http.MethodPost, "/auth/register", body, &result); err != nil {
		return RegisterResult{}, &AuthError{Message: displayMessage(err, "Registration failed."), Cause: err}
	}
	return result, nil
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges the stored refresh token for a new pair. Refresh tokens
// rotate: both tokens are swapped together. On failure the session is fully
// logged out; there is nothing left to retry with.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	staleRefresh := m.snap.RefreshToken
	m.mu.Unlock()
	if staleRefresh == "" {
		return "", &AuthError{Message: "No refresh token available."}
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	m.mu.Lock()
	current := m.snap
	m.mu.Unlock()
	if current.RefreshToken != staleRefresh && current.AccessToken != "" {
		// Another caller already rotated the pair while we waited.
		return current.AccessToken, nil
	}

	m.setPhase(PhaseRefreshing)

	var resp refreshResponse
	body := map[string]string{"refreshToken": current.RefreshToken}
	if err := m.client.Do(ctx, http.MethodPost, "/auth/refresh", body, &resp); err != nil {
		m.logger.Warn("refresh failed, forcing logout", zap.Error(err))
		m.forceLogout(ctx)
		return "", &AuthError{Message: "Session expired. Please log in again.", Cause: err}
	}

	m.mu.Lock()
	m.snap.Phase = PhaseAuthenticated
	m.snap.AccessToken = resp.AccessToken
	m.snap.RefreshToken = resp.RefreshToken
	snap := m.snap
	m.mu.Unlock()

	m.write(ctx, keyAccessToken, snap.AccessToken)
	m.write(ctx, keyRefreshToken, snap.RefreshToken)
	return snap.AccessToken, nil
}

// Validate asks the server whether the stored refresh token is still good.
// The session flow does not call this itself; screens can.
func (m *Manager) Validate(ctx context.Context) (bool, error) {
	m.mu.Lock()
	refresh := m.snap.RefreshToken
	m.mu.Unlock()
	if refresh == "" {
		return false, nil
	}

	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := m.client.Do(ctx, http.MethodPost, "/auth/validate", map[string]string{"refreshToken": refresh}, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// Logout ends the session. The server-side logout is best-effort; local
// state is cleared regardless, so calling Logout twice is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	m.forceLogout(ctx)
	return nil
}

func (m *Manager) forceLogout(ctx context.Context) {
	if err := m.client.Do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		m.logger.Warn("server-side logout failed, clearing local session anyway", zap.Error(err))
	}
	m.clear(ctx)
	m.setSnapshot(Snapshot{Phase: PhaseAnonymous})
}

// Current returns a copy of the session state.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Landing returns the route the current session should land on.
func (m *Manager) Landing() string {
	snap := m.Current()
	if !snap.LoggedIn() {
		return LandingRoute("")
	}
	return LandingRoute(snap.Role)
}

// --- api.TokenSource ---

func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.AccessToken
}

func (m *Manager) HasRefreshToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.RefreshToken != ""
}

// --- helpers ---

func (m *Manager) setSnapshot(snap Snapshot) {
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
}

func (m *Manager) setPhase(phase Phase) {
	m.mu.Lock()
	m.snap.Phase = phase
	m.mu.Unlock()
}

func (m *Manager) persist(ctx context.Context, snap Snapshot) {
	m.write(ctx, keyAccessToken, snap.AccessToken)
	m.write(ctx, keyRefreshToken, snap.RefreshToken)
	m.write(ctx, keyUserID, snap.UserID)
	m.write(ctx, keyUserRole, string(snap.Role))
	m.write(ctx, keyUserEmail, snap.UserEmail)
	m.write(ctx, keyUserName, snap.UserName)
}

func (m *Manager) clear(ctx context.Context) {
	for _, key := range sessionKeys {
		if err := m.st.Remove(ctx, key); err != nil {
			m.logger.Warn("failed to clear session key", zap.String("key", key), zap.Error(err))
		}
	}
}

func (m *Manager) read(ctx context.Context, key string) string {
	data, err := m.st.Get(ctx, key)
	if err != nil {
		return ""
	}
	return string(data)
}

func (m *Manager) write(ctx context.Context, key, value string) {
	if err := m.st.Set(ctx, key, []byte(value)); err != nil {
		m.logger.Warn("session write failed", zap.String("key", key), zap.Error(err))
	}
}

// displayMessage picks the user-facing message for an auth failure: the
// normalized API message when there is one, the fallback otherwise.
func displayMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
