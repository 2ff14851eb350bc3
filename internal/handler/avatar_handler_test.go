package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPresigner struct {
	gotPath string
	err     error
}

func (p *stubPresigner) PresignGet(_ context.Context, avatarPath string) (string, error) {
	p.gotPath = avatarPath
	if p.err != nil {
		return "", p.err
	}
	return "https://bucket.s3.test/" + avatarPath + "?X-Amz-Signature=abc", nil
}

func TestAvatarHandler_Redirects(t *testing.T) {
	p := &stubPresigner{}
	r := gin.New()
	r.GET("/uploads/:name", NewAvatarHandler(p).Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/1729339200000-1a2b3c4d.png", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "uploads/1729339200000-1a2b3c4d.png", p.gotPath)
	assert.Equal(t, "https://bucket.s3.test/uploads/1729339200000-1a2b3c4d.png?X-Amz-Signature=abc", w.Header().Get("Location"))
}

func TestAvatarHandler_PresignFailure(t *testing.T) {
	r := gin.New()
	r.GET("/uploads/:name", NewAvatarHandler(&stubPresigner{err: errors.New("invalid avatar path")}).Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/x.png", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}
