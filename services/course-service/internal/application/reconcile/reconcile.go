// Package reconcile repairs denormalized fields when a document is read.
package reconcile

import (
	"context"
	"fmt"

	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

// Rule binds a stored field to the value it should have. Derive computes the
// truth from the document, Current reads the stored copy, Apply writes the
// corrected value into the in-memory document and Persist stores it.
type Rule[D any, V comparable] struct {
	Name    string
	Derive  func(D) V
	Current func(D) V
	Apply   func(D, V)
	Persist func(ctx context.Context, doc D, v V) error
}

// Reconcile repairs doc if needed and reports whether it did. A matching
// document is left alone and nothing is written.
func (r Rule[D, V]) Reconcile(ctx context.Context, doc D) (bool, error) {
	want := r.Derive(doc)
	if r.Current(doc) == want {
		return false, nil
	}
	if err := r.Persist(ctx, doc, want); err != nil {
		return false, fmt.Errorf("reconcile %s: %w", r.Name, err)
	}
	r.Apply(doc, want)
	return true, nil
}

// MemberCountRule keeps Course.MemberCount equal to len(Course.Members).
func MemberCountRule(persist func(ctx context.Context, courseID string, n int) error) Rule[*domain.Course, int] {
	return Rule[*domain.Course, int]{
		Name:    "member_count",
		Derive:  func(c *domain.Course) int { return len(c.Members) },
		Current: func(c *domain.Course) int { return c.MemberCount },
		Apply:   func(c *domain.Course, n int) { c.MemberCount = n },
		Persist: func(ctx context.Context, c *domain.Course, n int) error {
			return persist(ctx, c.ID, n)
		},
	}
}
