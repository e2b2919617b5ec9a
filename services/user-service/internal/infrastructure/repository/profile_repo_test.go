package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/waste3d/courseplatform-api/services/user-service/internal/domain"
)

func newTestRepo(t *testing.T) *ProfileRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Profile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewProfileRepository(db)
}

func TestGetByIDNotFound(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.GetByID(context.Background(), "ghost"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := r.Enroll(context.Background(), "ghost", "c1", nil); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestMutationsPersistAndAreIdempotent(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	if err := r.Create(ctx, domain.NewProfile("u1", "u1@example.com", "u1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := r.Enroll(ctx, "u1", "c1", []string{"go", "sql"}); err != nil {
			t.Fatalf("Enroll #%d: %v", i, err)
		}
	}
	if _, err := r.Bookmark(ctx, "u1", "c2"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Complete(ctx, "u1", "c1", []string{"go"}); err != nil {
		t.Fatal(err)
	}

	p, err := r.GetByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(p.EnrolledCourseIDs, []string{"c1"}) ||
		!slices.Equal(p.CompletedCourseIDs, []string{"c1"}) ||
		!slices.Equal(p.BookmarkedCourseIDs, []string{"c2"}) ||
		!slices.Equal(p.Skills, []string{"go"}) ||
		!slices.Equal(p.SkillsInProgress, []string{"sql"}) {
		t.Fatalf("profile=%+v", p)
	}

	if _, err := r.Unenroll(ctx, "u1", "c1", []string{"sql"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Unbookmark(ctx, "u1", "c2"); err != nil {
		t.Fatal(err)
	}
	p, _ = r.GetByID(ctx, "u1")
	if len(p.EnrolledCourseIDs) != 0 || len(p.SkillsInProgress) != 0 || len(p.BookmarkedCourseIDs) != 0 {
		t.Fatalf("profile after removal=%+v", p)
	}
	if !slices.Equal(p.CompletedCourseIDs, []string{"c1"}) {
		t.Fatalf("completed list must be append-only: %v", p.CompletedCourseIDs)
	}
}

func TestConcurrentEnrollsOnDifferentCoursesAreAllKept(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	sqlDB, err := r.db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := r.Create(ctx, domain.NewProfile("u1", "u1@example.com", "u1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var locked atomic.Int32
	err = r.db.Callback().Query().Before("gorm:query").Register("test:locking", func(db *gorm.DB) {
		if _, ok := db.Statement.Clauses["FOR"]; ok {
			locked.Add(1)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := r.Enroll(ctx, "u1", fmt.Sprintf("c%d", i), nil); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Enroll: %v", err)
	}

	p, err := r.GetByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.EnrolledCourseIDs) != n {
		t.Fatalf("enrolled=%v, want %d courses", p.EnrolledCourseIDs, n)
	}
	if got := locked.Load(); got != n {
		t.Fatalf("locked reads=%d, want %d", got, n)
	}
}
