package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/waste3d/courseplatform-api/services/user-service/internal/domain"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrProfileNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Mutate loads the profile, applies fn and saves only if fn reports a change.
// The row stays locked until the transaction ends, so concurrent mutations of
// one profile apply one after another.
func (r *ProfileRepository) Mutate(ctx context.Context, id string, fn func(p *domain.Profile) bool) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Where("id = ?", id).
			First(&profile).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %s: %w", id, domain.ErrProfileNotFound)
			}
			return err
		}
		if !fn(&profile) {
			return nil
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Enroll(ctx context.Context, userID, courseID string, skills []string) (*domain.Profile, error) {
	return r.Mutate(ctx, userID, func(p *domain.Profile) bool { return p.Enroll(courseID, skills) })
}

func (r *ProfileRepository) Unenroll(ctx context.Context, userID, courseID string, skills []string) (*domain.Profile, error) {
	return r.Mutate(ctx, userID, func(p *domain.Profile) bool { return p.Unenroll(courseID, skills) })
}

func (r *ProfileRepository) Complete(ctx context.Context, userID, courseID string, skills []string) (*domain.Profile, error) {
	return r.Mutate(ctx, userID, func(p *domain.Profile) bool { return p.Complete(courseID, skills) })
}

func (r *ProfileRepository) Bookmark(ctx context.Context, userID, courseID string) (*domain.Profile, error) {
	return r.Mutate(ctx, userID, func(p *domain.Profile) bool { return p.Bookmark(courseID) })
}

func (r *ProfileRepository) Unbookmark(ctx context.Context, userID, courseID string) (*domain.Profile, error) {
	return r.Mutate(ctx, userID, func(p *domain.Profile) bool { return p.Unbookmark(courseID) })
}
