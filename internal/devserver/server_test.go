package devserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice-client/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (base, token string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := New("test-secret")
	email, password := server.Seed()

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	creds, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/v1/auth/signin", "application/json", bytes.NewReader(creds))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return ts.URL, out.Token
}

func postForm(t *testing.T, url, token, key string, fields map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, url, token string, out interface{}) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRetriedUserCreateIsReplayed(t *testing.T) {
	base, token := startServer(t)

	fields := map[string]string{
		"firstName": "Jo",
		"email":     "jo@example.com",
		"role":      models.RoleClient,
		"enabled":   "true",
	}

	first := postForm(t, base+"/api/v1/user", token, "retry-key-1", fields)
	defer first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)
	var created models.User
	require.NoError(t, json.NewDecoder(first.Body).Decode(&created))

	second := postForm(t, base+"/api/v1/user", token, "retry-key-1", fields)
	defer second.Body.Close()
	require.Equal(t, http.StatusCreated, second.StatusCode)
	var replayed models.User
	require.NoError(t, json.NewDecoder(second.Body).Decode(&replayed))

	assert.Equal(t, created, replayed)

	// the retry created nothing: the seeded admin plus one new user
	var users []models.User
	getJSON(t, base+"/api/v1/user", token, &users)
	assert.Len(t, users, 2)
}

func TestRetriedSlideCreateIsReplayed(t *testing.T) {
	base, token := startServer(t)

	fields := map[string]string{
		"title":    "Launch week",
		"position": "1",
		"active":   "true",
	}

	first := postForm(t, base+"/api/v1/carousel", token, "retry-key-2", fields)
	defer first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)
	var created models.CarouselSlide
	require.NoError(t, json.NewDecoder(first.Body).Decode(&created))

	second := postForm(t, base+"/api/v1/carousel", token, "retry-key-2", fields)
	defer second.Body.Close()
	var replayed models.CarouselSlide
	require.NoError(t, json.NewDecoder(second.Body).Decode(&replayed))
	assert.Equal(t, created.ID, replayed.ID)

	var slides []models.CarouselSlide
	getJSON(t, base+"/api/v1/carousel", token, &slides)
	assert.Len(t, slides, 1)
}

func TestDistinctKeysCreateDistinctRecords(t *testing.T) {
	base, token := startServer(t)

	fields := map[string]string{"name": "Accessories"}

	first := postForm(t, base+"/api/v1/categories", token, "key-a", fields)
	defer first.Body.Close()
	var one models.Category
	require.NoError(t, json.NewDecoder(first.Body).Decode(&one))

	second := postForm(t, base+"/api/v1/categories", token, "key-b", fields)
	defer second.Body.Close()
	var two models.Category
	require.NoError(t, json.NewDecoder(second.Body).Decode(&two))

	assert.NotEqual(t, one.ID, two.ID)
}
