package usecase

import (
	"context"

	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

type CourseStore interface {
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context, f domain.CourseFilter) ([]domain.Course, int64, error)
	CreateCourse(ctx context.Context, c *domain.Course) error
	CountCourses(ctx context.Context) (int64, error)

	InsertMember(ctx context.Context, m *domain.Membership) error
	RemoveMember(ctx context.Context, courseID string, seq int64) error
	SaveMember(ctx context.Context, m *domain.Membership) error
	SetMemberCount(ctx context.Context, courseID string, n int) error
}

// UserMutator is the user-service side of the enrollment saga.
type UserMutator interface {
	Enroll(ctx context.Context, userID, courseID string, skills []string) error
	Unenroll(ctx context.Context, userID, courseID string, skills []string) error
	Complete(ctx context.Context, userID, courseID string, skills []string) error
	Bookmark(ctx context.Context, userID, courseID string) error
	Unbookmark(ctx context.Context, userID, courseID string) error
}

// LessonSource lists the lessons behind an external folder link.
type LessonSource interface {
	ListLessons(ctx context.Context, link string) ([]domain.Lesson, error)
}
