package services

import (
	"io"
	"strings"

	records_errors "student-records/pkg/errors"
)

// Upload is an avatar file received with a create or update request.
type Upload struct {
	Filename string
	Content  io.Reader
}

type CreateStudentInput struct {
	Name    string
	Age     int
	Address string
}

func (in CreateStudentInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return records_errors.Invalid("name is required")
	}
	if in.Age < 0 {
		return records_errors.Invalid("age must be a non-negative integer")
	}
	if strings.TrimSpace(in.Address) == "" {
		return records_errors.Invalid("address is required")
	}
	return nil
}

// UpdateStudentInput holds the fields sent with an update. A nil field was
// not sent and keeps its stored value; a non-nil field overwrites it, even
// when empty.
type UpdateStudentInput struct {
	Name    *string
	Age     *int
	Address *string
}

func (in UpdateStudentInput) Validate() error {
	if in.Age != nil && *in.Age < 0 {
		return records_errors.Invalid("age must be a non-negative integer")
	}
	return nil
}

const (
	DefaultPage  = 1
	DefaultLimit = 4
)

type ListPageInput struct {
	Page  int
	Limit int
}

func (in ListPageInput) Validate() error {
	if in.Page < 1 {
		return records_errors.Invalid("page must be at least 1")
	}
	if in.Limit < 1 {
		return records_errors.Invalid("limit must be at least 1")
	}
	return nil
}
