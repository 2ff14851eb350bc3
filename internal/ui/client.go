package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"student-records/internal/domain/student"
	"student-records/internal/transport/httpdto"
)

const DefaultClientTimeout = 30 * time.Second

// APIError is a non-2xx answer from the record service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record service: %d %s", e.Status, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// StudentFields are the text fields of the create/update form, sent as-is.
type StudentFields struct {
	Name    string
	Age     string
	Address string
}

// AvatarFile is an optional file forwarded with a create or update.
type AvatarFile struct {
	Filename string
	Content  io.Reader
}

// RecordClient talks to the record service over HTTP.
type RecordClient struct {
	baseURL string
	http    *http.Client
}

func NewRecordClient(baseURL string, timeout time.Duration) *RecordClient {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &RecordClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *RecordClient) BaseURL() string {
	return c.baseURL
}

func (c *RecordClient) ListPage(ctx context.Context, page, limit int) (student.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var body httpdto.StudentPageResponse
	if err := c.do(ctx, http.MethodGet, "/students-paging?"+q.Encode(), nil, "", &body); err != nil {
		return student.Page{}, err
	}
	return student.Page{
		Students:    body.Students,
		TotalPages:  body.TotalPages,
		CurrentPage: body.CurrentPage,
	}, nil
}

func (c *RecordClient) Get(ctx context.Context, id string) (student.Student, error) {
	var s student.Student
	err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(id), nil, "", &s)
	return s, err
}

func (c *RecordClient) Create(ctx context.Context, fields StudentFields, avatar *AvatarFile) (student.Student, error) {
	body, contentType, err := encodeStudentForm(fields, avatar)
	if err != nil {
		return student.Student{}, err
	}
	var s student.Student
	err = c.do(ctx, http.MethodPost, "/students", body, contentType, &s)
	return s, err
}

func (c *RecordClient) Update(ctx context.Context, id string, fields StudentFields, avatar *AvatarFile) (student.Student, error) {
	body, contentType, err := encodeStudentForm(fields, avatar)
	if err != nil {
		return student.Student{}, err
	}
	var s student.Student
	err = c.do(ctx, http.MethodPut, "/students/"+url.PathEscape(id), body, contentType, &s)
	return s, err
}

func (c *RecordClient) Delete(ctx context.Context, id string) error {
	var ack httpdto.MessageResponse
	return c.do(ctx, http.MethodDelete, "/students/"+url.PathEscape(id), nil, "", &ack)
}

func (c *RecordClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e httpdto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Message != "" {
			apiErr.Message = e.Message
			apiErr.Code = e.Code
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// encodeStudentForm builds the multipart body. The avatar part is omitted
// when no file was chosen.
func encodeStudentForm(fields StudentFields, avatar *AvatarFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range []struct{ key, value string }{
		{"name", fields.Name},
		{"age", fields.Age},
		{"address", fields.Address},
	} {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", f.key, err)
		}
	}

	if avatar != nil {
		part, err := w.CreateFormFile("avatar", avatar.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create avatar part: %w", err)
		}
		if _, err := io.Copy(part, avatar.Content); err != nil {
			return nil, "", fmt.Errorf("copy avatar: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
