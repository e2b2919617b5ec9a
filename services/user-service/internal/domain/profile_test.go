package domain

import (
	"slices"
	"testing"
)

func TestEnrollIsIdempotent(t *testing.T) {
	p := NewProfile("u1", "u1@example.com", "u1")
	if !p.Enroll("c1", []string{"go", "sql"}) {
		t.Fatal("first enroll reported no change")
	}
	if p.Enroll("c1", []string{"go", "sql"}) {
		t.Fatal("repeated enroll reported a change")
	}
	if !slices.Equal(p.EnrolledCourseIDs, []string{"c1"}) || !slices.Equal(p.SkillsInProgress, []string{"go", "sql"}) {
		t.Fatalf("profile=%+v", p)
	}
}

func TestUnenrollRemovesCourseAndSkills(t *testing.T) {
	p := NewProfile("u1", "", "")
	p.Enroll("c1", []string{"go", "sql"})
	p.Enroll("c2", []string{"k8s"})

	if !p.Unenroll("c1", []string{"go", "sql"}) {
		t.Fatal("unenroll reported no change")
	}
	if !slices.Equal(p.EnrolledCourseIDs, []string{"c2"}) || !slices.Equal(p.SkillsInProgress, []string{"k8s"}) {
		t.Fatalf("profile=%+v", p)
	}
	if p.Unenroll("c1", []string{"go"}) {
		t.Fatal("repeated unenroll reported a change")
	}
}

func TestCompleteMovesSkills(t *testing.T) {
	p := NewProfile("u1", "", "")
	p.Enroll("c1", []string{"go", "sql"})

	if !p.Complete("c1", []string{"go", "sql"}) {
		t.Fatal("complete reported no change")
	}
	if !slices.Equal(p.CompletedCourseIDs, []string{"c1"}) || !slices.Equal(p.Skills, []string{"go", "sql"}) || len(p.SkillsInProgress) != 0 {
		t.Fatalf("profile=%+v", p)
	}
	if !slices.Equal(p.EnrolledCourseIDs, []string{"c1"}) {
		t.Fatalf("complete touched enrolled list: %v", p.EnrolledCourseIDs)
	}
	if p.Complete("c1", []string{"go", "sql"}) {
		t.Fatal("repeated complete reported a change")
	}
}

func TestBookmarkToggle(t *testing.T) {
	p := NewProfile("u1", "", "")
	if !p.Bookmark("c1") || p.Bookmark("c1") {
		t.Fatal("bookmark not idempotent")
	}
	if !p.Unbookmark("c1") || p.Unbookmark("c1") {
		t.Fatal("unbookmark not idempotent")
	}
	if len(p.BookmarkedCourseIDs) != 0 {
		t.Fatalf("bookmarks=%v", p.BookmarkedCourseIDs)
	}
}
