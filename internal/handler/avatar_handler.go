package handler

import (
	"context"
	"net/http"

	"student-records/internal/storage"
	"student-records/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type avatarPresigner interface {
	PresignGet(ctx context.Context, avatarPath string) (string, error)
}

// AvatarHandler serves avatars kept in object storage by redirecting to a
// short-lived presigned URL. Local avatars are served as static files instead.
type AvatarHandler struct {
	presigner avatarPresigner
}

func NewAvatarHandler(presigner avatarPresigner) *AvatarHandler {
	return &AvatarHandler{presigner: presigner}
}

func (h *AvatarHandler) Get(c *gin.Context) {
	u, err := h.presigner.PresignGet(c.Request.Context(), storage.PublicPrefix+"/"+c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("avatar not found", httpdto.CodeNotFound))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, u)
}
