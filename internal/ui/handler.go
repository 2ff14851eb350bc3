package ui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"student-records/internal/domain/student"
	"student-records/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

type recordAPI interface {
	ListPage(ctx context.Context, page, limit int) (student.Page, error)
	Get(ctx context.Context, id string) (student.Student, error)
	Create(ctx context.Context, fields StudentFields, avatar *AvatarFile) (student.Student, error)
	Update(ctx context.Context, id string, fields StudentFields, avatar *AvatarFile) (student.Student, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	records   recordAPI
	avatarURL string
	limit     int
	logger    *logger.Logger
}

// NewHandler builds the UI handlers. avatarBaseURL is the origin the browser
// loads avatar images from, normally the record service URL.
func NewHandler(records recordAPI, avatarBaseURL string, limit int, l *logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNop()
	}
	return &Handler{records: records, avatarURL: avatarBaseURL, limit: limit, logger: l}
}

func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// RegisterRoutes installs the templates and UI routes on engine.
func (h *Handler) RegisterRoutes(engine *gin.Engine) {
	engine.SetHTMLTemplate(Templates())

	engine.GET("/", h.Index)
	engine.GET("/students/:id/edit", h.Edit)
	engine.POST("/students", h.Create)
	engine.POST("/students/update", h.Update)
	engine.POST("/students/:id/delete", h.Delete)
}

func (h *Handler) Index(c *gin.Context) {
	h.render(c, NewPageState(c.Query("page"), h.limit))
}

func (h *Handler) Edit(c *gin.Context) {
	state := NewPageState(c.Query("page"), h.limit)

	s, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logFailure(c, "load student for edit", err)
		h.redirectToPage(c, state.CurrentPage)
		return
	}
	h.render(c, state.WithEditing(s))
}

// Create always adds a new record and returns to the first page.
func (h *Handler) Create(c *gin.Context) {
	page := ParsePage(c.PostForm("page"))

	avatar, closeAvatar, err := avatarFromForm(c)
	if err != nil {
		h.logFailure(c, "read avatar", err)
		h.redirectToPage(c, page)
		return
	}
	defer closeAvatar()

	if _, err := h.records.Create(c.Request.Context(), fieldsFromForm(c), avatar); err != nil {
		h.logFailure(c, "create student", err)
		h.redirectToPage(c, page)
		return
	}
	h.redirectToPage(c, 1)
}

// Update saves the record named by the hidden id field and stays on the
// current page.
func (h *Handler) Update(c *gin.Context) {
	page := ParsePage(c.PostForm("page"))

	id := c.PostForm("id")
	if id == "" {
		h.logFailure(c, "update student", errors.New("no student selected"))
		h.redirectToPage(c, page)
		return
	}

	avatar, closeAvatar, err := avatarFromForm(c)
	if err != nil {
		h.logFailure(c, "read avatar", err)
		h.redirectToPage(c, page)
		return
	}
	defer closeAvatar()

	if _, err := h.records.Update(c.Request.Context(), id, fieldsFromForm(c), avatar); err != nil {
		h.logFailure(c, "update student", err)
	}
	h.redirectToPage(c, page)
}

// Delete runs after the browser confirm() and stays on the current page,
// even when that page is now empty.
func (h *Handler) Delete(c *gin.Context) {
	page := ParsePage(c.PostForm("page"))

	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logFailure(c, "delete student", err)
	}
	h.redirectToPage(c, page)
}

func (h *Handler) render(c *gin.Context, state PageState) {
	page, err := h.records.ListPage(c.Request.Context(), state.CurrentPage, state.Limit)
	if err != nil {
		h.logFailure(c, "list students", err)
		page = student.Page{}
		state.Error = "Could not load students. Please try again."
	}
	c.HTML(http.StatusOK, "index.html", Render(state, page, h.avatarURL))
}

func (h *Handler) redirectToPage(c *gin.Context, page int) {
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/?page=%d", page))
}

func (h *Handler) logFailure(c *gin.Context, op string, err error) {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.Status))
	}
	h.logger.ErrorCtx(c.Request.Context(), "record service call failed", fields...)
}

func fieldsFromForm(c *gin.Context) StudentFields {
	return StudentFields{
		Name:    c.PostForm("name"),
		Age:     c.PostForm("age"),
		Address: c.PostForm("address"),
	}
}

// avatarFromForm returns the chosen file, or nil when the file input was
// left empty.
func avatarFromForm(c *gin.Context) (*AvatarFile, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &AvatarFile{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
