package auth

import (
	"context"
	"sync"

	"backoffice-client/internal/api"
	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"
	"backoffice-client/internal/session"
	"backoffice-client/internal/util"

	"go.uber.org/zap"
)

// State is the session lifecycle position
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateValidating      State = "validating"
	StateProfileLoading  State = "profile_loading"
	StateAuthenticated   State = "authenticated"
)

// Credentials is the signin payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput is the registration payload
type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Manager drives the session state machine:
//
//	Unauthenticated -> Validating -> ProfileLoading -> Authenticated
//
// Any validation or profile-fetch failure drops back to Unauthenticated and
// clears the stored token.
type Manager struct {
	client  *api.Client
	session *session.Store
	notify  *notify.Notifier
	logger  *zap.Logger

	mu      sync.RWMutex
	state   State
	profile *models.User
}

// NewManager creates an auth manager
func NewManager(client *api.Client, sess *session.Store, notifier *notify.Notifier) *Manager {
	return &Manager{
		client:  client,
		session: sess,
		notify:  notifier,
		logger:  util.GetLogger(),
		state:   StateUnauthenticated,
	}
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Profile returns the loaded user profile, nil until LoadProfile succeeds
func (m *Manager) Profile() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

// IsAuthenticated reports whether the session is usable
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// Login exchanges credentials for a token. The session becomes authenticated
// immediately; the profile stays deliberately unset until an explicit
// LoadProfile, so callers must not assume one is populated.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	var resp tokenResponse
	if err := m.client.PostPublic(ctx, "/api/v1/auth/signin", Credentials{Email: email, Password: password}, &resp); err != nil {
		m.setState(StateUnauthenticated)
		return err
	}

	if err := m.session.SetToken(resp.Token); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.profile = nil
	m.mu.Unlock()

	m.logger.Info("Signed in", zap.String("email", email))
	m.notify.Success("Signed in")
	return nil
}

// Signup registers a new account and authenticates it like Login
func (m *Manager) Signup(ctx context.Context, in SignupInput) error {
	var resp tokenResponse
	if err := m.client.PostPublic(ctx, "/api/v1/auth/signup", in, &resp); err != nil {
		m.setState(StateUnauthenticated)
		return err
	}

	if err := m.session.SetToken(resp.Token); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.profile = nil
	m.mu.Unlock()

	m.notify.Success("Account created")
	return nil
}

// Restore resumes a persisted session: validate the token, then fetch the
// profile, strictly in that order. Both must succeed before the session is
// usable; any failure clears the token.
func (m *Manager) Restore(ctx context.Context) error {
	if m.session.Token() == "" {
		m.setState(StateUnauthenticated)
		return nil
	}

	m.setState(StateValidating)
	if err := m.client.Post(ctx, "/api/v1/auth/validate", nil, nil); err != nil {
		m.logger.Warn("Stored session failed validation", zap.Error(err))
		m.reset()
		return err
	}

	m.setState(StateProfileLoading)
	if _, err := m.LoadProfile(ctx); err != nil {
		m.logger.Warn("Profile fetch failed during session restore", zap.Error(err))
		m.reset()
		return err
	}

	m.setState(StateAuthenticated)
	m.logger.Info("Session restored")
	return nil
}

// LoadProfile fetches the profile named by the token's subject claim
func (m *Manager) LoadProfile(ctx context.Context) (*models.User, error) {
	subject, err := m.session.Subject()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := m.client.Get(ctx, "/api/v1/user/"+subject, &user); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.profile = &user
	m.mu.Unlock()
	return &user, nil
}

// Logout drops the session
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.profile = nil
	m.mu.Unlock()

	return m.session.Clear()
}

// HandleUnauthorized is wired as the API client's 401 hook. The token is
// already cleared by the client; this only resets local state and must not
// issue requests.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.profile = nil
	m.mu.Unlock()
}

// reset clears the token and drops to Unauthenticated after a failed restore
func (m *Manager) reset() {
	if err := m.session.Clear(); err != nil {
		m.logger.Error("Failed to clear session", zap.Error(err))
	}

	m.mu.Lock()
	m.state = StateUnauthenticated
	m.profile = nil
	m.mu.Unlock()
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
