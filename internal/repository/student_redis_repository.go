package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"student-records/internal/domain/student"
	records_errors "student-records/pkg/errors"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Key layout:
// - student:{id}     JSON document
// - students:index   sorted set of ids scored by insertion sequence
// - students:seq     insertion sequence counter
const (
	studentKeyPrefix = "student:"
	studentIndexKey  = "students:index"
	studentSeqKey    = "students:seq"
)

type RedisStudentRepository struct {
	client goredis.UniversalClient
}

func NewStudentRedisRepository(client goredis.UniversalClient) StudentRepository {
	return &RedisStudentRepository{client: client}
}

func studentKey(id string) string {
	return studentKeyPrefix + id
}

func (r *RedisStudentRepository) Create(ctx context.Context, s *student.Student) error {
	s.ID = uuid.New().String()

	seq, err := r.client.Incr(ctx, studentSeqKey).Result()
	if err != nil {
		return fmt.Errorf("next student sequence: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, studentKey(s.ID), data, 0)
		pipe.ZAdd(ctx, studentIndexKey, goredis.Z{Score: float64(seq), Member: s.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("create student %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStudentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	data, err := r.client.Get(ctx, studentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return student.Student{}, fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
		}
		return student.Student{}, fmt.Errorf("student %s: %w", id, err)
	}

	var s student.Student
	if err := json.Unmarshal(data, &s); err != nil {
		return student.Student{}, fmt.Errorf("decode student %s: %w", id, err)
	}
	return s, nil
}

func (r *RedisStudentRepository) Update(ctx context.Context, id string, patch student.Patch) (student.Student, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return student.Student{}, err
	}

	updated := patch.Apply(current)
	data, err := json.Marshal(updated)
	if err != nil {
		return student.Student{}, err
	}

	// XX keeps a concurrently deleted document deleted.
	ok, err := r.client.SetXX(ctx, studentKey(id), data, 0).Result()
	if err != nil {
		return student.Student{}, fmt.Errorf("update student %s: %w", id, err)
	}
	if !ok {
		return student.Student{}, fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
	}
	return updated, nil
}

func (r *RedisStudentRepository) Delete(ctx context.Context, id string) error {
	var del *goredis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, studentKey(id))
		pipe.ZRem(ctx, studentIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
	}
	return nil
}

func (r *RedisStudentRepository) List(ctx context.Context, offset, limit int) ([]student.Student, error) {
	if limit <= 0 {
		return []student.Student{}, nil
	}
	stop := int64(-1)
	if limit <= math.MaxInt-offset {
		stop = int64(offset + limit - 1)
	}
	ids, err := r.client.ZRange(ctx, studentIndexKey, int64(offset), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return r.load(ctx, ids)
}

func (r *RedisStudentRepository) ListAll(ctx context.Context) ([]student.Student, error) {
	ids, err := r.client.ZRange(ctx, studentIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return r.load(ctx, ids)
}

func (r *RedisStudentRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.client.ZCard(ctx, studentIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

func (r *RedisStudentRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// load fetches documents for ids in order, skipping ids whose document vanished.
func (r *RedisStudentRepository) load(ctx context.Context, ids []string) ([]student.Student, error) {
	students := make([]student.Student, 0, len(ids))
	if len(ids) == 0 {
		return students, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = studentKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var s student.Student
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decode student %s: %w", ids[i], err)
		}
		students = append(students, s)
	}
	return students, nil
}
