package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

// CourseCache is the cache-aside for single course documents.
type CourseCache interface {
	Get(ctx context.Context, id string) (*domain.Course, error)
	Set(ctx context.Context, course *domain.Course) error
	Invalidate(ctx context.Context, id string) error
}

type CourseRepository struct {
	db    *gorm.DB
	cache CourseCache
	log   *logger.Logger
}

// NewCourseRepository accepts a nil cache; reads then always hit the database.
func NewCourseRepository(db *gorm.DB, cache CourseCache, log *logger.Logger) *CourseRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &CourseRepository{db: db, cache: cache, log: log}
}

func (r *CourseRepository) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	if r.cache != nil {
		c, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("course cache read failed", "course_id", id, "error", err)
		} else if c != nil {
			return c, nil
		}
	}

	var course domain.Course
	err := r.membersPreload(r.db.WithContext(ctx)).First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get course %s: %w: %w", id, domain.ErrInternal, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, &course); err != nil {
			r.log.Warn("course cache write failed", "course_id", id, "error", err)
		}
	}
	return &course, nil
}

func (r *CourseRepository) ListCourses(ctx context.Context, f domain.CourseFilter) ([]domain.Course, int64, error) {
	var (
		courses []domain.Course
		total   int64
	)

	query := r.db.WithContext(ctx).Model(&domain.Course{})
	if f.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count courses: %w: %w", domain.ErrInternal, err)
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	err := r.membersPreload(query.Offset(f.Offset)).
		Order("created_at desc").Order("id").
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w: %w", domain.ErrInternal, err)
	}
	return courses, total, nil
}

func (r *CourseRepository) CreateCourse(ctx context.Context, c *domain.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create course: %w: %w", domain.ErrInternal, err)
	}
	return nil
}

func (r *CourseRepository) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Course{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count courses: %w: %w", domain.ErrInternal, err)
	}
	return n, nil
}

// InsertMember appends an entry. A zero Seq takes the next position; a
// preset Seq puts a previously removed entry back in its old place.
func (r *CourseRepository) InsertMember(ctx context.Context, m *domain.Membership) error {
	defer r.invalidate(ctx, m.CourseID)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert member: %w: %w", domain.ErrInternal, err)
	}
	return nil
}

func (r *CourseRepository) RemoveMember(ctx context.Context, courseID string, seq int64) error {
	defer r.invalidate(ctx, courseID)
	res := r.db.WithContext(ctx).
		Where("course_id = ? AND seq = ?", courseID, seq).
		Delete(&domain.Membership{})
	if res.Error != nil {
		return fmt.Errorf("remove member: %w: %w", domain.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("member %d of course %s: %w", seq, courseID, domain.ErrNotFound)
	}
	return nil
}

func (r *CourseRepository) SaveMember(ctx context.Context, m *domain.Membership) error {
	defer r.invalidate(ctx, m.CourseID)
	res := r.db.WithContext(ctx).Model(&domain.Membership{}).
		Where("course_id = ? AND seq = ?", m.CourseID, m.Seq).
		Updates(map[string]interface{}{
			"progress":        m.Progress,
			"current_lesson":  m.CurrentLesson,
			"total_lessons":   m.TotalLessons,
			"skills_snapshot": m.SkillsSnapshot,
		})
	if res.Error != nil {
		return fmt.Errorf("save member: %w: %w", domain.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("member %d of course %s: %w", m.Seq, m.CourseID, domain.ErrNotFound)
	}
	return nil
}

func (r *CourseRepository) SetMemberCount(ctx context.Context, courseID string, n int) error {
	defer r.invalidate(ctx, courseID)
	err := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("member_count", n).Error
	if err != nil {
		return fmt.Errorf("set member count: %w: %w", domain.ErrInternal, err)
	}
	return nil
}

func (r *CourseRepository) membersPreload(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq asc")
	})
}

func (r *CourseRepository) invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.log.Warn("course cache invalidation failed", "course_id", id, "error", err)
	}
}
