package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"
	"testing"

	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

type fakeStore struct {
	mu          sync.Mutex
	courses     map[string]*domain.Course
	nextSeq     int64
	countWrites int
	afterGet    func()
	failSave    error
	failCount   error
}

func newFakeStore(courses ...*domain.Course) *fakeStore {
	s := &fakeStore{courses: map[string]*domain.Course{}}
	for _, c := range courses {
		for i := range c.Members {
			s.nextSeq++
			c.Members[i].Seq = s.nextSeq
			c.Members[i].CourseID = c.ID
		}
		s.courses[c.ID] = c
	}
	return s
}

func cloneCourse(c *domain.Course) *domain.Course {
	out := *c
	out.Skills = slices.Clone(c.Skills)
	out.Modules = slices.Clone(c.Modules)
	out.Members = make([]domain.Membership, len(c.Members))
	for i, m := range c.Members {
		m.SkillsSnapshot = slices.Clone(m.SkillsSnapshot)
		out.Members[i] = m
	}
	return &out
}

func (s *fakeStore) GetCourse(_ context.Context, id string) (*domain.Course, error) {
	s.mu.Lock()
	c, ok := s.courses[id]
	var out *domain.Course
	if ok {
		out = cloneCourse(c)
	}
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	if s.afterGet != nil {
		s.afterGet()
	}
	return out, nil
}

func (s *fakeStore) ListCourses(_ context.Context, f domain.CourseFilter) ([]domain.Course, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.courses))
	for id := range s.courses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.Course, 0, len(ids))
	for _, id := range ids {
		out = append(out, *cloneCourse(s.courses[id]))
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) CreateCourse(_ context.Context, c *domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = fmt.Sprintf("course-%d", len(s.courses)+1)
	}
	s.courses[c.ID] = cloneCourse(c)
	return nil
}

func (s *fakeStore) CountCourses(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.courses)), nil
}

func (s *fakeStore) InsertMember(_ context.Context, m *domain.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[m.CourseID]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Seq == 0 {
		s.nextSeq++
		m.Seq = s.nextSeq
	}
	cp := *m
	cp.SkillsSnapshot = slices.Clone(m.SkillsSnapshot)
	c.Members = append(c.Members, cp)
	sort.Slice(c.Members, func(i, j int) bool { return c.Members[i].Seq < c.Members[j].Seq })
	return nil
}

func (s *fakeStore) RemoveMember(_ context.Context, courseID string, seq int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.courses[courseID]
	i := slices.IndexFunc(c.Members, func(m domain.Membership) bool { return m.Seq == seq })
	if i < 0 {
		return domain.ErrNotFound
	}
	c.Members = slices.Delete(c.Members, i, i+1)
	return nil
}

func (s *fakeStore) SaveMember(_ context.Context, m *domain.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	c := s.courses[m.CourseID]
	i := slices.IndexFunc(c.Members, func(e domain.Membership) bool { return e.Seq == m.Seq })
	if i < 0 {
		return domain.ErrNotFound
	}
	c.Members[i] = *m
	return nil
}

func (s *fakeStore) SetMemberCount(_ context.Context, courseID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCount != nil {
		return s.failCount
	}
	s.countWrites++
	s.courses[courseID].MemberCount = n
	return nil
}

// snapshot is the stored course serialized, for byte-level comparisons.
func (s *fakeStore) snapshot(t *testing.T, id string) []byte {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.Marshal(s.courses[id])
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func (s *fakeStore) stored(id string) *domain.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCourse(s.courses[id])
}

type userCall struct {
	op       string
	userID   string
	courseID string
	skills   []string
}

type fakeUsers struct {
	mu    sync.Mutex
	calls []userCall
	fail  map[string]error
}

func (f *fakeUsers) record(op, userID, courseID string, skills []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userCall{op: op, userID: userID, courseID: courseID, skills: slices.Clone(skills)})
	return f.fail[op]
}

func (f *fakeUsers) Enroll(_ context.Context, userID, courseID string, skills []string) error {
	return f.record("enroll", userID, courseID, skills)
}

func (f *fakeUsers) Unenroll(_ context.Context, userID, courseID string, skills []string) error {
	return f.record("unenroll", userID, courseID, skills)
}

func (f *fakeUsers) Complete(_ context.Context, userID, courseID string, skills []string) error {
	return f.record("complete", userID, courseID, skills)
}

func (f *fakeUsers) Bookmark(_ context.Context, userID, courseID string) error {
	return f.record("bookmark", userID, courseID, nil)
}

func (f *fakeUsers) Unbookmark(_ context.Context, userID, courseID string) error {
	return f.record("unbookmark", userID, courseID, nil)
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// tenLessonCourse has two modules of five lessons.
func tenLessonCourse(id string, members ...domain.Membership) *domain.Course {
	lessons := func() []domain.Lesson {
		out := make([]domain.Lesson, 5)
		for i := range out {
			out[i] = domain.Lesson{Title: fmt.Sprintf("lesson %d", i+1)}
		}
		return out
	}
	return &domain.Course{
		ID:          id,
		Title:       "Go backend",
		Skills:      []string{"go", "sql"},
		Modules:     []domain.Module{{Title: "one", Lessons: lessons()}, {Title: "two", Lessons: lessons()}},
		MemberCount: len(members),
		Members:     members,
	}
}
