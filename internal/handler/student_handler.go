package handler

import (
	"errors"
	"fmt"
	"net/http"

	"student-records/internal/domain/student"
	"student-records/internal/services"
	"student-records/internal/transport/httpdto"
	records_errors "student-records/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const avatarField = "avatar"

type StudentHandler struct {
	service *services.StudentService
}

func NewStudentHandler(service *services.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) Create(c *gin.Context) {
	var form httpdto.StudentForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		writeError(c, fmt.Errorf("%w: malformed form body: %w", records_errors.ErrInvalidInput, err))
		return
	}
	in, err := form.ToCreateInput()
	if err != nil {
		writeError(c, err)
		return
	}

	avatar, closeAvatar, err := avatarFromRequest(c)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeAvatar()

	created, err := h.service.Create(c.Request.Context(), in, avatar)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *StudentHandler) ListPage(c *gin.Context) {
	var q httpdto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, records_errors.Invalid("malformed query: %v", err))
		return
	}
	in, err := q.ToListPageInput()
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := h.service.ListPage(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewStudentPageResponse(page))
}

func (h *StudentHandler) ListAll(c *gin.Context) {
	students, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if students == nil {
		students = []student.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetByID(c *gin.Context) {
	item, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *StudentHandler) Update(c *gin.Context) {
	var form httpdto.StudentForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		writeError(c, fmt.Errorf("%w: malformed form body: %w", records_errors.ErrInvalidInput, err))
		return
	}
	in, err := form.ToUpdateInput()
	if err != nil {
		writeError(c, err)
		return
	}

	avatar, closeAvatar, err := avatarFromRequest(c)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeAvatar()

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), in, avatar)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse("Student deleted successfully"))
}

// avatarFromRequest opens the optional avatar part. A request without one,
// including a non-multipart request, yields a nil upload.
func avatarFromRequest(c *gin.Context) (*services.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(avatarField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("%w: malformed avatar upload: %w", records_errors.ErrInvalidInput, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, records_errors.Invalid("unreadable avatar upload: %v", err)
	}
	return &services.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}

// writeError maps domain errors to a status and JSON body. The error is also
// attached to the context for the error middleware to log.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, httpdto.NewErrorResponse(
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), httpdto.CodeTooLarge))
	case errors.Is(err, records_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), httpdto.CodeInvalidRequest))
	case errors.Is(err, records_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("Student not found", httpdto.CodeNotFound))
	case errors.Is(err, records_errors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(err.Error(), httpdto.CodeRateLimited))
	case errors.Is(err, records_errors.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), httpdto.CodeUnhealthy))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), httpdto.CodeStoreError))
	}
}
