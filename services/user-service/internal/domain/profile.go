package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/waste3d/courseplatform-api/internal/platform/stringset"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the user aggregate. Every list column is a set: members are
// checked before insert, so each mutation below is idempotent.
type Profile struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Username string `json:"username"`
	AvatarID int    `gorm:"default:1" json:"avatarId"`

	EnrolledCourseIDs   datatypes.JSONSlice[string] `json:"enrolledCourseIds"`
	CompletedCourseIDs  datatypes.JSONSlice[string] `json:"completedCourseIds"`
	BookmarkedCourseIDs datatypes.JSONSlice[string] `json:"bookmarkedCourseIds"`
	Skills              datatypes.JSONSlice[string] `json:"skills"`
	SkillsInProgress    datatypes.JSONSlice[string] `json:"skillsInProgress"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewProfile(id, email, username string) *Profile {
	return &Profile{
		ID:                  id,
		Email:               email,
		Username:            username,
		AvatarID:            1,
		EnrolledCourseIDs:   []string{},
		CompletedCourseIDs:  []string{},
		BookmarkedCourseIDs: []string{},
		Skills:              []string{},
		SkillsInProgress:    []string{},
	}
}

// Enroll reports whether anything changed.
func (p *Profile) Enroll(courseID string, skills []string) bool {
	var a, b bool
	p.EnrolledCourseIDs, a = stringset.Add(p.EnrolledCourseIDs, courseID)
	p.SkillsInProgress, b = stringset.Union(p.SkillsInProgress, skills)
	return a || b
}

func (p *Profile) Unenroll(courseID string, skills []string) bool {
	var a, b bool
	p.EnrolledCourseIDs, a = stringset.Remove(p.EnrolledCourseIDs, courseID)
	p.SkillsInProgress, b = stringset.Difference(p.SkillsInProgress, skills)
	return a || b
}

// Complete records the course and moves its skills from in-progress to acquired.
// The completed list is append-only; enrolled is left as is.
func (p *Profile) Complete(courseID string, skills []string) bool {
	var a, b, c bool
	p.CompletedCourseIDs, a = stringset.Add(p.CompletedCourseIDs, courseID)
	p.SkillsInProgress, b = stringset.Difference(p.SkillsInProgress, skills)
	p.Skills, c = stringset.Union(p.Skills, skills)
	return a || b || c
}

func (p *Profile) Bookmark(courseID string) bool {
	var changed bool
	p.BookmarkedCourseIDs, changed = stringset.Add(p.BookmarkedCourseIDs, courseID)
	return changed
}

func (p *Profile) Unbookmark(courseID string) bool {
	var changed bool
	p.BookmarkedCourseIDs, changed = stringset.Remove(p.BookmarkedCourseIDs, courseID)
	return changed
}
