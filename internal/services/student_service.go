package services

import (
	"context"
	"fmt"
	"math"

	"student-records/internal/domain/student"
	"student-records/internal/repository"
	"student-records/internal/storage"
	"student-records/pkg/logger"

	"go.uber.org/zap"
)

type StudentService struct {
	repo    repository.StudentRepository
	avatars storage.AvatarStore
	logger  *logger.Logger
}

func NewStudentService(repo repository.StudentRepository, avatars storage.AvatarStore, l *logger.Logger) *StudentService {
	if l == nil {
		l = logger.NewNop()
	}
	return &StudentService{repo: repo, avatars: avatars, logger: l}
}

// Create stores the avatar, if any, and then the record. The two writes are
// not atomic; a failed record write removes the new avatar best-effort.
func (s *StudentService) Create(ctx context.Context, in CreateStudentInput, avatar *Upload) (student.Student, error) {
	if err := in.Validate(); err != nil {
		return student.Student{}, err
	}

	st := student.Student{Name: in.Name, Age: in.Age, Address: in.Address}
	if avatar != nil {
		p, err := s.avatars.Save(ctx, avatar.Filename, avatar.Content)
		if err != nil {
			return student.Student{}, fmt.Errorf("save avatar: %w", err)
		}
		st.Avatar = p
	}

	if err := s.repo.Create(ctx, &st); err != nil {
		s.discardAvatar(ctx, st.Avatar)
		return student.Student{}, err
	}

	s.logger.InfoCtx(ctx, "student created", zap.String("id", st.ID), zap.Bool("avatar", st.Avatar != ""))
	return st, nil
}

func (s *StudentService) ListPage(ctx context.Context, in ListPageInput) (student.Page, error) {
	if err := in.Validate(); err != nil {
		return student.Page{}, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return student.Page{}, err
	}
	page := student.Page{
		Students:    []student.Student{},
		TotalPages:  student.TotalPages(count, in.Limit),
		CurrentPage: in.Page,
	}

	// An offset that does not fit in an int is past any stored collection.
	if in.Page-1 > math.MaxInt/in.Limit {
		return page, nil
	}
	students, err := s.repo.List(ctx, (in.Page-1)*in.Limit, in.Limit)
	if err != nil {
		return student.Page{}, err
	}
	page.Students = students
	return page, nil
}

func (s *StudentService) ListAll(ctx context.Context) ([]student.Student, error) {
	return s.repo.ListAll(ctx)
}

func (s *StudentService) GetByID(ctx context.Context, id string) (student.Student, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites the fields present in the input. The avatar changes only
// when a new file is supplied; the previous file stays on disk.
func (s *StudentService) Update(ctx context.Context, id string, in UpdateStudentInput, avatar *Upload) (student.Student, error) {
	if err := in.Validate(); err != nil {
		return student.Student{}, err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return student.Student{}, err
	}

	patch := student.Patch{Name: in.Name, Age: in.Age, Address: in.Address}
	if avatar != nil {
		p, err := s.avatars.Save(ctx, avatar.Filename, avatar.Content)
		if err != nil {
			return student.Student{}, fmt.Errorf("save avatar: %w", err)
		}
		patch.Avatar = &p
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if patch.Avatar != nil {
			s.discardAvatar(ctx, *patch.Avatar)
		}
		return student.Student{}, err
	}

	s.logger.InfoCtx(ctx, "student updated", zap.String("id", id), zap.Bool("avatar_replaced", patch.Avatar != nil))
	return updated, nil
}

// Delete removes the record only. Its avatar file is left in place.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoCtx(ctx, "student deleted", zap.String("id", id))
	return nil
}

func (s *StudentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *StudentService) discardAvatar(ctx context.Context, avatarPath string) {
	if avatarPath == "" {
		return
	}
	if err := s.avatars.Delete(context.WithoutCancel(ctx), avatarPath); err != nil {
		s.logger.WarnCtx(ctx, "failed to remove avatar after store error", zap.String("path", avatarPath), zap.Error(err))
	}
}
