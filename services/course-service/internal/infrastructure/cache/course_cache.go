package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

const detailPrefix = "course:detail:"

// CourseCache keeps full course documents (members included) by id. Lists
// are never cached: a stale list would hide count drift from the reconciler.
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CourseCache{client: client, ttl: ttl}
}

// Get reports a miss as (nil, nil).
func (c *CourseCache) Get(ctx context.Context, id string) (*domain.Course, error) {
	val, err := c.client.Get(ctx, detailPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var course domain.Course
	if err := json.Unmarshal(val, &course); err != nil {
		// Unreadable entry, treat as a miss and let the next Set replace it.
		return nil, nil
	}
	for i := range course.Members {
		course.Members[i].CourseID = course.ID
	}
	return &course, nil
}

func (c *CourseCache) Set(ctx context.Context, course *domain.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, detailPrefix+course.ID, data, c.ttl).Err()
}

func (c *CourseCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, detailPrefix+id).Err()
}
