package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/waste3d/courseplatform-api/services/user-service/internal/domain"
)

type ProfileStore interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Enroll(ctx context.Context, userID, courseID string, skills []string) (*domain.Profile, error)
	Unenroll(ctx context.Context, userID, courseID string, skills []string) (*domain.Profile, error)
	Complete(ctx context.Context, userID, courseID string, skills []string) (*domain.Profile, error)
	Bookmark(ctx context.Context, userID, courseID string) (*domain.Profile, error)
	Unbookmark(ctx context.Context, userID, courseID string) (*domain.Profile, error)
}

type UserHandler struct {
	store ProfileStore
}

func NewUserHandler(store ProfileStore) *UserHandler {
	return &UserHandler{store: store}
}

type createProfileReq struct {
	ID       string `json:"id"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req createProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	profile := domain.NewProfile(id, req.Email, req.Username)
	if err := h.store.Create(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GET /users/:userId
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.store.GetByID(c.Request.Context(), c.Param("userId"))
	h.respond(c, profile, err)
}

// POST /users/:userId/enroll/:courseId
func (h *UserHandler) Enroll(c *gin.Context) {
	skills, ok := bindSkills(c)
	if !ok {
		return
	}
	profile, err := h.store.Enroll(c.Request.Context(), c.Param("userId"), c.Param("courseId"), skills)
	h.respond(c, profile, err)
}

// DELETE /users/:userId/enroll/:courseId
func (h *UserHandler) Unenroll(c *gin.Context) {
	skills, ok := bindSkills(c)
	if !ok {
		return
	}
	profile, err := h.store.Unenroll(c.Request.Context(), c.Param("userId"), c.Param("courseId"), skills)
	h.respond(c, profile, err)
}

// POST /users/:userId/complete/:courseId
func (h *UserHandler) Complete(c *gin.Context) {
	skills, ok := bindSkills(c)
	if !ok {
		return
	}
	profile, err := h.store.Complete(c.Request.Context(), c.Param("userId"), c.Param("courseId"), skills)
	h.respond(c, profile, err)
}

// POST /users/:userId/bookmark/:courseId
func (h *UserHandler) Bookmark(c *gin.Context) {
	profile, err := h.store.Bookmark(c.Request.Context(), c.Param("userId"), c.Param("courseId"))
	h.respond(c, profile, err)
}

// DELETE /users/:userId/bookmark/:courseId
func (h *UserHandler) Unbookmark(c *gin.Context) {
	profile, err := h.store.Unbookmark(c.Request.Context(), c.Param("userId"), c.Param("courseId"))
	h.respond(c, profile, err)
}

func (h *UserHandler) respond(c *gin.Context, profile *domain.Profile, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, profile)
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindSkills reads the optional JSON array of skill names. An empty body means none.
func bindSkills(c *gin.Context) ([]string, bool) {
	var skills []string
	if err := c.ShouldBindJSON(&skills); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON array of skill names"})
		return nil, false
	}
	return skills, true
}
