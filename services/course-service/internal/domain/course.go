package domain

import (
	"math"
	"slices"
	"time"

	"gorm.io/datatypes"

	"github.com/waste3d/courseplatform-api/internal/platform/stringset"
)

type Course struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Title       string `gorm:"index" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`
	CoverURL    string `json:"coverUrl"`

	Skills  datatypes.JSONSlice[string] `json:"skills"`
	Modules datatypes.JSONSlice[Module] `json:"modules"`

	// Denormalized len(Members). May drift; repaired on read.
	MemberCount int          `gorm:"not null;default:0" json:"memberCount"`
	Members     []Membership `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"members"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CourseFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

type Module struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Lesson struct {
	Title    string `json:"title"`
	FileLink string `json:"fileLink"`
}

// Membership is one entry of a course's member list. Seq orders entries;
// nothing prevents two entries for the same user.
type Membership struct {
	Seq            int64                       `gorm:"primaryKey;autoIncrement" json:"seq"`
	CourseID       string                      `gorm:"size:36;index" json:"-"`
	UserID         string                      `gorm:"index" json:"userId"`
	Progress       float64                     `json:"progress"`
	SkillsSnapshot datatypes.JSONSlice[string] `json:"skillsSnapshot"`
	CurrentLesson  int                         `json:"currentLesson"`
	TotalLessons   int                         `json:"totalLessons"`
}

func (c *Course) TotalLessons() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// FindMember returns the index of the first entry for userID, or -1.
func (c *Course) FindMember(userID string) int {
	return slices.IndexFunc(c.Members, func(m Membership) bool { return m.UserID == userID })
}

// NewMembership builds a zeroed entry with a fresh snapshot of the course.
func (c *Course) NewMembership(userID string) Membership {
	return Membership{
		CourseID:       c.ID,
		UserID:         userID,
		Progress:       0,
		SkillsSnapshot: stringset.Clone(c.Skills),
		CurrentLesson:  0,
		TotalLessons:   c.TotalLessons(),
	}
}

// AdvanceLesson moves the entry forward by exactly one lesson. Any other
// value is ignored and reported as false.
func (m *Membership) AdvanceLesson(currentLesson int) bool {
	if currentLesson != m.CurrentLesson+1 {
		return false
	}
	m.CurrentLesson = currentLesson
	m.Progress = ProgressPercent(currentLesson, m.TotalLessons)
	return true
}

// ProgressPercent is current/total*100 rounded to two decimals and capped at 100.
func ProgressPercent(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := math.Round(float64(current)/float64(total)*100*100) / 100
	return math.Min(p, 100)
}
