package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/waste3d/courseplatform-api/services/course-service/internal/application/usecase"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/middleware"
)

type CourseHandler struct {
	catalog    Catalog
	enrollment Enrollment
}

func NewCourseHandler(catalog Catalog, enrollment Enrollment) *CourseHandler {
	return &CourseHandler{catalog: catalog, enrollment: enrollment}
}

// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	courses, total, err := h.catalog.ListCourses(c.Request.Context(), domain.CourseFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "totalCount": total})
}

// GET /api/v1/courses/:id
func (h *CourseHandler) GetOne(c *gin.Context) {
	course, err := h.catalog.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req usecase.CreateCourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// POST /api/v1/courses/:id/enroll
//
// 503 means the user service rejected or missed the call and the course was
// rolled back.
func (h *CourseHandler) Enroll(c *gin.Context) {
	course, err := h.enrollment.Enroll(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DELETE /api/v1/courses/:id/enroll
func (h *CourseHandler) Unenroll(c *gin.Context) {
	if err := h.enrollment.Unenroll(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/courses/:id/complete
//
// A 200 only guarantees the course side. The user's completed list may lag
// if the user service call failed.
func (h *CourseHandler) Complete(c *gin.Context) {
	course, err := h.enrollment.Complete(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// POST /api/v1/courses/:id/bookmark
//
// Success does not confirm the user service stored the bookmark.
func (h *CourseHandler) Bookmark(c *gin.Context) {
	courseID := c.Param("id")
	if err := h.enrollment.Bookmark(c.Request.Context(), courseID, c.GetString(middleware.UserIDKey)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courseId": courseID, "bookmarked": true})
}

// DELETE /api/v1/courses/:id/bookmark
func (h *CourseHandler) Unbookmark(c *gin.Context) {
	if err := h.enrollment.Unbookmark(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type progressReq struct {
	CurrentLesson *int `json:"currentLesson" binding:"required,min=0"`
}

// PATCH /api/v1/courses/:id/progress
func (h *CourseHandler) Progress(c *gin.Context) {
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, err := h.enrollment.AdvanceLesson(c.Request.Context(), c.Param("id"), c.GetString(middleware.UserIDKey), *req.CurrentLesson)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}
