package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/internal/platform/stringset"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/application/reconcile"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CatalogUseCase serves course reads. Every course it returns has been run
// through the member-count rule first.
type CatalogUseCase struct {
	store   CourseStore
	lessons LessonSource
	count   reconcile.Rule[*domain.Course, int]
	log     *logger.Logger
}

func NewCatalogUseCase(store CourseStore, log *logger.Logger) *CatalogUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &CatalogUseCase{
		store: store,
		count: reconcile.MemberCountRule(store.SetMemberCount),
		log:   log,
	}
}

// WithLessonSource enables importing lessons from CreateCourseInput.CloudLink.
func (uc *CatalogUseCase) WithLessonSource(src LessonSource) *CatalogUseCase {
	uc.lessons = src
	return uc
}

func (uc *CatalogUseCase) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	course, err := uc.store.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.repair(ctx, course)
	return course, nil
}

func (uc *CatalogUseCase) ListCourses(ctx context.Context, f domain.CourseFilter) ([]domain.Course, int64, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	courses, total, err := uc.store.ListCourses(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	for i := range courses {
		uc.repair(ctx, &courses[i])
	}
	return courses, total, nil
}

// repair never fails the read. When the write fails the caller still sees
// the derived count; the stored one is retried on the next read.
func (uc *CatalogUseCase) repair(ctx context.Context, c *domain.Course) {
	stored := c.MemberCount
	repaired, err := uc.count.Reconcile(ctx, c)
	if err != nil {
		uc.count.Apply(c, uc.count.Derive(c))
		uc.log.Error("member count repair failed", "course_id", c.ID, "stored", stored, "error", err)
		return
	}
	if repaired {
		uc.log.Info("member count repaired", "course_id", c.ID, "stored", stored, "actual", c.MemberCount)
	}
}

type CreateCourseInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CoverURL    string          `json:"coverUrl"`
	Skills      []string        `json:"skills"`
	Modules     []domain.Module `json:"modules"`
	// CloudLink is read only when Modules is empty.
	CloudLink string `json:"cloudLink"`
}

func (uc *CatalogUseCase) CreateCourse(ctx context.Context, in CreateCourseInput) (*domain.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrInvalidInput)
	}
	skills, _ := stringset.Union([]string{}, in.Skills)
	modules := in.Modules
	if len(modules) == 0 && in.CloudLink != "" && uc.lessons != nil {
		modules = uc.importLessons(ctx, in.CloudLink)
	}
	if modules == nil {
		modules = []domain.Module{}
	}

	course := &domain.Course{
		Title:       title,
		Description: in.Description,
		Category:    in.Category,
		CoverURL:    in.CoverURL,
		Skills:      skills,
		Modules:     modules,
		Members:     []domain.Membership{},
	}
	if err := uc.store.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// importLessons never fails the create: a broken link yields a course
// without modules and a warning.
func (uc *CatalogUseCase) importLessons(ctx context.Context, link string) []domain.Module {
	lessons, err := uc.lessons.ListLessons(ctx, link)
	if err != nil {
		uc.log.Warn("failed to import lessons from cloud link", "link", link, "error", err)
		return nil
	}
	return []domain.Module{{Title: "Lessons", Lessons: lessons}}
}

// SeedDefaults creates the given courses when the catalog is empty.
func (uc *CatalogUseCase) SeedDefaults(ctx context.Context, defaults []CreateCourseInput) (int, error) {
	n, err := uc.store.CountCourses(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	created := 0
	for _, in := range defaults {
		if _, err := uc.CreateCourse(ctx, in); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
