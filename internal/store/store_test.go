package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"backoffice-client/internal/api"
	"backoffice-client/internal/auth"
	"backoffice-client/internal/devserver"
	"backoffice-client/internal/notify"
	"backoffice-client/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	client   *api.Client
	notifier *notify.Notifier
	sess     *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	return newWrappedEnv(t, nil)
}

// newWrappedEnv spins up a seeded fixture backend, optionally wrapped by a
// fault-injecting middleware, and signs in as the seeded admin.
func newWrappedEnv(t *testing.T, wrap func(http.Handler) http.Handler) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := devserver.New("test-secret")
	email, password := backend.Seed()

	var handler http.Handler = backend.Handler()
	if wrap != nil {
		handler = wrap(handler)
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sess, err := session.Open(filepath.Join(t.TempDir(), "session"))
	require.NoError(t, err)

	notifier := notify.New()
	client := api.NewClient(server.URL, 5*time.Second, sess, notifier)

	authMgr := auth.NewManager(client, sess, notifier)
	require.NoError(t, authMgr.Login(context.Background(), email, password))

	return &testEnv{client: client, notifier: notifier, sess: sess}
}

// memorySnapshots is an in-memory SnapshotCache for tests
type memorySnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[string][]byte)}
}

func (m *memorySnapshots) Store(_ context.Context, resource string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[resource] = data
	return nil
}

func (m *memorySnapshots) Load(_ context.Context, resource string, out interface{}) (bool, error) {
	m.mu.Lock()
	data, ok := m.data[resource]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

func entityIDs[T Entity](list []T) []int64 {
	ids := make([]int64, len(list))
	for i, item := range list {
		ids[i] = item.EntityID()
	}
	return ids
}
