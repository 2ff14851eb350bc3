package database

import (
	"context"
	"fmt"
	"log"

	"student-records/internal/domain/student"
	"student-records/internal/repository"
)

// SeedConfig holds configuration for seeding the store
type SeedConfig struct {
	StudentCount int
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{StudentCount: 10}
}

var (
	seedNames     = []string{"Ann", "Bob", "Chloe", "Dmitri", "Eve", "Farah", "Gus", "Hana", "Ivan", "Jun"}
	seedAddresses = []string{"Main St", "Oak Ave", "Elm Rd", "Pine Ln", "Cedar Ct"}
)

// Seed creates cfg.StudentCount sample students without avatars.
func Seed(ctx context.Context, repo repository.StudentRepository, cfg *SeedConfig) ([]student.Student, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	log.Println("Starting store seeding...")

	created := make([]student.Student, 0, cfg.StudentCount)
	for i := range cfg.StudentCount {
		s := student.Student{
			Name:    seedNames[i%len(seedNames)],
			Age:     18 + i%10,
			Address: fmt.Sprintf("%d %s", i+1, seedAddresses[i%len(seedAddresses)]),
		}
		if i >= len(seedNames) {
			s.Name = fmt.Sprintf("%s %d", s.Name, i/len(seedNames)+1)
		}
		if err := repo.Create(ctx, &s); err != nil {
			return created, fmt.Errorf("failed to seed student %d: %w", i, err)
		}
		created = append(created, s)
	}

	log.Printf("Seeded %d students", len(created))
	return created, nil
}

// Truncate deletes every stored student. Avatar files are left alone.
func Truncate(ctx context.Context, repo repository.StudentRepository) (int, error) {
	all, err := repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list students: %w", err)
	}
	for i, s := range all {
		if err := repo.Delete(ctx, s.ID); err != nil {
			return i, fmt.Errorf("failed to delete student %s: %w", s.ID, err)
		}
	}
	return len(all), nil
}
