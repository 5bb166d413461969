package auth

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"backoffice-client/internal/api"
	"backoffice-client/internal/devserver"
	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"
	"backoffice-client/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	serverURL   string
	sessionPath string
	email       string
	password    string

	sess    *session.Store
	client  *api.Client
	manager *Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := devserver.New("test-secret")
	email, password := backend.Seed()

	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	env := &testEnv{
		serverURL:   server.URL,
		sessionPath: filepath.Join(t.TempDir(), "session"),
		email:       email,
		password:    password,
	}
	env.reopen(t)
	return env
}

// reopen rebuilds the session store, client, and manager against the same
// session file, simulating a fresh application start.
func (env *testEnv) reopen(t *testing.T) {
	t.Helper()

	sess, err := session.Open(env.sessionPath)
	require.NoError(t, err)

	notifier := notify.New()
	client := api.NewClient(env.serverURL, 5*time.Second, sess, notifier)

	env.sess = sess
	env.client = client
	env.manager = NewManager(client, sess, notifier)
}

func TestLoginAuthenticates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.manager.Login(ctx, env.email, env.password))

	assert.Equal(t, StateAuthenticated, env.manager.State())
	assert.True(t, env.manager.IsAuthenticated())
	assert.NotEmpty(t, env.sess.Token())
	// the profile is loaded separately, never as a login side effect
	assert.Nil(t, env.manager.Profile())

	profile, err := env.manager.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.email, profile.Email)
	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.Equal(t, profile, env.manager.Profile())
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)

	err := env.manager.Login(context.Background(), env.email, "wrong")

	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, env.manager.State())
	assert.Empty(t, env.sess.Token())
}

func TestRestoreFromPersistedToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.manager.Login(ctx, env.email, env.password))

	// fresh start: only the session file survives
	env.reopen(t)
	require.NotEmpty(t, env.sess.Token())

	require.NoError(t, env.manager.Restore(ctx))

	assert.Equal(t, StateAuthenticated, env.manager.State())
	require.NotNil(t, env.manager.Profile())
	assert.Equal(t, env.email, env.manager.Profile().Email)
}

func TestRestoreWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.manager.Restore(context.Background()))

	assert.Equal(t, StateUnauthenticated, env.manager.State())
	assert.Nil(t, env.manager.Profile())
}

func TestRestoreWithInvalidTokenClearsIt(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.sess.SetToken("not-a-valid-token"))

	err := env.manager.Restore(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, env.manager.State())
	assert.Empty(t, env.sess.Token())
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.manager.Signup(ctx, SignupInput{
		FirstName: "New",
		LastName:  "Person",
		Email:     "new@example.com",
		Password:  "s3cret",
	}))

	assert.Equal(t, StateAuthenticated, env.manager.State())

	profile, err := env.manager.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", profile.Email)
	assert.Equal(t, models.RoleClient, profile.Role)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.manager.Login(ctx, env.email, env.password))
	_, err := env.manager.LoadProfile(ctx)
	require.NoError(t, err)

	require.NoError(t, env.manager.Logout())

	assert.Equal(t, StateUnauthenticated, env.manager.State())
	assert.Nil(t, env.manager.Profile())
	assert.Empty(t, env.sess.Token())
}

func TestHandleUnauthorizedResetsState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.manager.Login(ctx, env.email, env.password))
	_, err := env.manager.LoadProfile(ctx)
	require.NoError(t, err)

	env.manager.HandleUnauthorized()

	assert.Equal(t, StateUnauthenticated, env.manager.State())
	assert.Nil(t, env.manager.Profile())
}
