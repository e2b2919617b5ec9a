package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waste3d/courseplatform-api/services/course-service/internal/application/usecase"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

type Catalog interface {
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context, f domain.CourseFilter) ([]domain.Course, int64, error)
	CreateCourse(ctx context.Context, in usecase.CreateCourseInput) (*domain.Course, error)
}

type Enrollment interface {
	Enroll(ctx context.Context, courseID, userID string) (*domain.Course, error)
	Unenroll(ctx context.Context, courseID, userID string) error
	Complete(ctx context.Context, courseID, userID string) (*domain.Course, error)
	Bookmark(ctx context.Context, courseID, userID string) error
	Unbookmark(ctx context.Context, courseID, userID string) error
	AdvanceLesson(ctx context.Context, courseID, userID string, currentLesson int) (*domain.Course, error)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
