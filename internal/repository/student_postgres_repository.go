package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"student-records/internal/domain/student"
	records_errors "student-records/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// studentDoc is the jsonb body. The id lives in its own column.
type studentDoc struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	Avatar  string `json:"avatar,omitempty"`
}

type PostgresStudentRepository struct {
	db          DBTX
	schemaReady atomic.Bool
}

func NewStudentPostgresRepository(db DBTX) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

// EnsureSchema applies the schema once per process. A failed attempt is
// retried by the next call, so a store that was down at startup recovers.
func (r *PostgresStudentRepository) EnsureSchema(ctx context.Context) error {
	if r.schemaReady.Load() {
		return nil
	}
	if err := InitSchema(ctx, r.db); err != nil {
		return err
	}
	r.schemaReady.Store(true)
	return nil
}

func (r *PostgresStudentRepository) Create(ctx context.Context, s *student.Student) error {
	if err := r.EnsureSchema(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(studentDoc{Name: s.Name, Age: s.Age, Address: s.Address, Avatar: s.Avatar})
	if err != nil {
		return err
	}

	var id string
	err = r.db.QueryRow(ctx,
		`INSERT INTO students (doc) VALUES ($1::jsonb) RETURNING id::text`, data,
	).Scan(&id)
	if err != nil {
		return mapError(err, "new")
	}
	s.ID = id
	return nil
}

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return student.Student{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT id::text, doc FROM students WHERE id = $1`, id)
	s, err := scanStudent(row)
	if err != nil {
		return student.Student{}, mapError(err, id)
	}
	return s, nil
}

func (r *PostgresStudentRepository) Update(ctx context.Context, id string, patch student.Patch) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return student.Student{}, err
	}

	data, err := json.Marshal(patchDoc(patch))
	if err != nil {
		return student.Student{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE students SET doc = doc || $2::jsonb WHERE id = $1 RETURNING id::text, doc`, id, data,
	)
	s, err := scanStudent(row)
	if err != nil {
		return student.Student{}, mapError(err, id)
	}
	return s, nil
}

func (r *PostgresStudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return mapError(err, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
	}
	return nil
}

func (r *PostgresStudentRepository) List(ctx context.Context, offset, limit int) ([]student.Student, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT id::text, doc FROM students ORDER BY seq OFFSET $1 LIMIT $2`, offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return collectStudents(rows)
}

func (r *PostgresStudentRepository) ListAll(ctx context.Context) ([]student.Student, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id::text, doc FROM students ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return collectStudents(rows)
}

func (r *PostgresStudentRepository) Count(ctx context.Context) (int64, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

func (r *PostgresStudentRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func patchDoc(p student.Patch) map[string]any {
	doc := map[string]any{}
	if p.Name != nil {
		doc["name"] = *p.Name
	}
	if p.Age != nil {
		doc["age"] = *p.Age
	}
	if p.Address != nil {
		doc["address"] = *p.Address
	}
	if p.Avatar != nil {
		doc["avatar"] = *p.Avatar
	}
	return doc
}

func scanStudent(row pgx.Row) (student.Student, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return student.Student{}, err
	}
	return decodeStudent(id, raw)
}

func decodeStudent(id string, raw []byte) (student.Student, error) {
	var doc studentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return student.Student{}, fmt.Errorf("decode student %s: %w", id, err)
	}
	return student.Student{ID: id, Name: doc.Name, Age: doc.Age, Address: doc.Address, Avatar: doc.Avatar}, nil
}

func collectStudents(rows pgx.Rows) ([]student.Student, error) {
	defer rows.Close()

	students := []student.Student{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		s, err := decodeStudent(id, raw)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}
