package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

func newTestCache(t *testing.T) *CourseCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewCourseCache(client, time.Minute)
}

func TestCourseCacheRoundTripAndInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	id := uuid.NewString()

	got, err := c.Get(ctx, id)
	if err != nil || got != nil {
		t.Fatalf("expected miss, got %v err=%v", got, err)
	}

	course := &domain.Course{
		ID:          id,
		Title:       "Go",
		Skills:      []string{"go"},
		MemberCount: 1,
		Members:     []domain.Membership{{UserID: "u1", Progress: 50, SkillsSnapshot: []string{"go"}}},
	}
	if err := c.Set(ctx, course); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err = c.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("expected hit, got %v err=%v", got, err)
	}
	if got.Title != "Go" || len(got.Members) != 1 || got.Members[0].Progress != 50 {
		t.Fatalf("cached course differs: %+v", got)
	}

	if err := c.Invalidate(ctx, id); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if got, _ := c.Get(ctx, id); got != nil {
		t.Fatal("entry survived invalidation")
	}
}
