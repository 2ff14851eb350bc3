package repository

import (
	"context"

	"student-records/internal/domain/student"
)

// StudentRepository is the document store holding student records.
// Listing order is the store's insertion order.
type StudentRepository interface {
	Create(ctx context.Context, s *student.Student) error
	GetByID(ctx context.Context, id string) (student.Student, error)
	Update(ctx context.Context, id string, patch student.Patch) (student.Student, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, offset, limit int) ([]student.Student, error)
	ListAll(ctx context.Context) ([]student.Student, error)
	Count(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}
