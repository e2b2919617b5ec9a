package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/application/saga"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

// EnrollmentUseCase keeps a course's member list and the user's course lists
// in step. Local state is committed before the user-service call; whether a
// failed call is compensated depends on the runner's policy for the operation.
type EnrollmentUseCase struct {
	store  CourseStore
	users  UserMutator
	runner *saga.Runner
	log    *logger.Logger
}

func NewEnrollmentUseCase(store CourseStore, users UserMutator, runner *saga.Runner, log *logger.Logger) *EnrollmentUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	if runner == nil {
		runner = saga.NewRunner(saga.DefaultPolicies(), log)
	}
	return &EnrollmentUseCase{store: store, users: users, runner: runner, log: log}
}

func (uc *EnrollmentUseCase) Enroll(ctx context.Context, courseID, userID string) (*domain.Course, error) {
	course, err := uc.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.FindMember(userID) >= 0 {
		return nil, fmt.Errorf("user %s in course %s: %w", userID, courseID, domain.ErrConflict)
	}

	prevCount := course.MemberCount
	entry := course.NewMembership(userID)

	undo := func(ctx context.Context) error {
		if err := uc.store.RemoveMember(ctx, courseID, entry.Seq); err != nil {
			return err
		}
		course.Members = slices.DeleteFunc(course.Members, func(m domain.Membership) bool { return m.Seq == entry.Seq })
		course.MemberCount = prevCount
		return uc.store.SetMemberCount(ctx, courseID, prevCount)
	}

	err = uc.runner.Run(ctx, saga.Step{
		Op:       saga.OpEnroll,
		CourseID: courseID,
		UserID:   userID,
		// A failed count write takes the inserted entry back out, so a failed
		// Mutate leaves nothing behind.
		Mutate: func(ctx context.Context) error {
			if err := uc.store.InsertMember(ctx, &entry); err != nil {
				return err
			}
			if err := uc.store.SetMemberCount(ctx, courseID, len(course.Members)+1); err != nil {
				return errors.Join(err, uc.store.RemoveMember(context.WithoutCancel(ctx), courseID, entry.Seq))
			}
			course.Members = append(course.Members, entry)
			course.MemberCount = len(course.Members)
			return nil
		},
		Remote: func(ctx context.Context) error {
			return uc.users.Enroll(ctx, userID, courseID, entry.SkillsSnapshot)
		},
		Undo:  undo,
		Reset: undo,
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *EnrollmentUseCase) Unenroll(ctx context.Context, courseID, userID string) error {
	course, err := uc.store.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	idx := course.FindMember(userID)
	if idx < 0 {
		return fmt.Errorf("user %s in course %s: %w", userID, courseID, domain.ErrNotFound)
	}

	prevCount := course.MemberCount
	removed := course.Members[idx]

	return uc.runner.Run(ctx, saga.Step{
		Op:       saga.OpUnenroll,
		CourseID: courseID,
		UserID:   userID,
		Mutate: func(ctx context.Context) error {
			if err := uc.store.RemoveMember(ctx, courseID, removed.Seq); err != nil {
				return err
			}
			if err := uc.store.SetMemberCount(ctx, courseID, len(course.Members)-1); err != nil {
				restored := removed
				return errors.Join(err, uc.store.InsertMember(context.WithoutCancel(ctx), &restored))
			}
			course.Members = slices.Delete(course.Members, idx, idx+1)
			course.MemberCount = len(course.Members)
			return nil
		},
		Remote: func(ctx context.Context) error {
			return uc.users.Unenroll(ctx, userID, courseID, removed.SkillsSnapshot)
		},
		// Puts the removed entry back with its Seq, so at its old position.
		Undo: func(ctx context.Context) error {
			restored := removed
			if err := uc.store.InsertMember(ctx, &restored); err != nil {
				return err
			}
			return uc.store.SetMemberCount(ctx, courseID, prevCount)
		},
		// Appends a fresh entry. Progress and lesson position are lost.
		Reset: func(ctx context.Context) error {
			fresh := course.NewMembership(userID)
			if err := uc.store.InsertMember(ctx, &fresh); err != nil {
				return err
			}
			course.Members = append(course.Members, fresh)
			course.MemberCount = len(course.Members)
			return uc.store.SetMemberCount(ctx, courseID, course.MemberCount)
		},
	})
}

// Complete marks the entry finished. A failed user-service call is logged
// and the caller still sees success.
func (uc *EnrollmentUseCase) Complete(ctx context.Context, courseID, userID string) (*domain.Course, error) {
	course, err := uc.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	idx := course.FindMember(userID)
	if idx < 0 {
		return nil, fmt.Errorf("user %s in course %s: %w", userID, courseID, domain.ErrNotFound)
	}
	entry := &course.Members[idx]

	err = uc.runner.Run(ctx, saga.Step{
		Op:       saga.OpComplete,
		CourseID: courseID,
		UserID:   userID,
		Mutate: func(ctx context.Context) error {
			entry.Progress = 100
			return uc.store.SaveMember(ctx, entry)
		},
		Remote: func(ctx context.Context) error {
			return uc.users.Complete(ctx, userID, courseID, entry.SkillsSnapshot)
		},
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *EnrollmentUseCase) Bookmark(ctx context.Context, courseID, userID string) error {
	if _, err := uc.store.GetCourse(ctx, courseID); err != nil {
		return err
	}
	return uc.runner.Run(ctx, saga.Step{
		Op:       saga.OpBookmark,
		CourseID: courseID,
		UserID:   userID,
		Remote: func(ctx context.Context) error {
			return uc.users.Bookmark(ctx, userID, courseID)
		},
	})
}

func (uc *EnrollmentUseCase) Unbookmark(ctx context.Context, courseID, userID string) error {
	if _, err := uc.store.GetCourse(ctx, courseID); err != nil {
		return err
	}
	return uc.runner.Run(ctx, saga.Step{
		Op:       saga.OpUnbookmark,
		CourseID: courseID,
		UserID:   userID,
		Remote: func(ctx context.Context) error {
			return uc.users.Unbookmark(ctx, userID, courseID)
		},
	})
}

// AdvanceLesson applies the one-step lesson guard. A rejected step is not an
// error; the unchanged course is returned.
func (uc *EnrollmentUseCase) AdvanceLesson(ctx context.Context, courseID, userID string, currentLesson int) (*domain.Course, error) {
	course, err := uc.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	idx := course.FindMember(userID)
	if idx < 0 {
		return nil, fmt.Errorf("user %s in course %s: %w", userID, courseID, domain.ErrNotFound)
	}
	entry := &course.Members[idx]
	if !entry.AdvanceLesson(currentLesson) {
		uc.log.Debug("lesson advance ignored",
			"course_id", courseID, "user_id", userID,
			"requested", currentLesson, "current", entry.CurrentLesson)
		return course, nil
	}
	if err := uc.store.SaveMember(ctx, entry); err != nil {
		return nil, err
	}
	return course, nil
}
