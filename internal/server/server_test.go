package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"student-records/config"
	"student-records/internal/domain/student"
	"student-records/internal/handler"
	"student-records/internal/redis"
	"student-records/internal/repository"
	"student-records/internal/services"
	"student-records/internal/storage"
	"student-records/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, writeLimit int) (*Server, string) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	dir := t.TempDir()
	avatars, err := storage.NewLocalAvatarStore(dir)
	require.NoError(t, err)

	cfg := &config.Config{
		AppPort:            "0",
		AppMode:            TestMode,
		MaxUploadBytes:     1 << 20,
		CORSAllowedOrigins: "*",
	}
	l := logger.NewNop()
	svc := services.NewStudentService(repository.NewStudentRedisRepository(client), avatars, l)

	opts := RouteOptions{UploadDir: dir}
	if writeLimit > 0 {
		opts.RateLimiter = redis.NewRateLimiter(client, redis.RateLimitConfig{WriteLimit: writeLimit, WriteWindow: time.Minute})
	}

	srv := New(cfg, l)
	srv.SetupRoutes(&Handlers{
		Students: handler.NewStudentHandler(svc),
		Health:   handler.NewHealthHandler(svc),
	}, opts)
	return srv, dir
}

func createWithAvatar(t *testing.T, srv *Server, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Ann"))
	require.NoError(t, mw.WriteField("age", "20"))
	require.NoError(t, mw.WriteField("address", "Main St"))
	part, err := mw.CreateFormFile("avatar", "ann.png")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/students", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestServer_RoutesAndStaticAvatars(t *testing.T) {
	srv, dir := newTestServer(t, 0)

	w := createWithAvatar(t, srv, "png-bytes")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var created student.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.FileExists(t, filepath.Join(dir, filepath.Base(created.Avatar)))

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+created.Avatar, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students-paging?page=1&limit=4", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPages":1`)

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/abc", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `records_http_requests_total{method="GET",path="/students/:id",status="404"}`)
}

func TestServer_WriteRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	require.Equal(t, http.StatusCreated, createWithAvatar(t, srv, "a").Code)
	w := createWithAvatar(t, srv, "b")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_BodyLimit(t *testing.T) {
	srv, dir := newTestServer(t, 0)

	w := createWithAvatar(t, srv, strings.Repeat("x", 2<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
