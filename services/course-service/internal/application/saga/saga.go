// Package saga runs one local mutation followed by one remote call and
// compensates according to a per-operation policy.
package saga

import (
	"context"
	"errors"
	"fmt"

	"github.com/waste3d/courseplatform-api/internal/platform/logger"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

type Policy int

const (
	// NoRollback keeps the local change and swallows the remote failure.
	NoRollback Policy = iota
	// LossyRollback compensates with Reset, which may not restore the exact prior state.
	LossyRollback
	// FullRollback compensates with Undo, restoring the prior state exactly.
	FullRollback
)

func (p Policy) String() string {
	switch p {
	case FullRollback:
		return "full_rollback"
	case LossyRollback:
		return "lossy_rollback"
	default:
		return "no_rollback"
	}
}

type Operation string

const (
	OpEnroll     Operation = "enroll"
	OpUnenroll   Operation = "unenroll"
	OpComplete   Operation = "complete"
	OpBookmark   Operation = "bookmark"
	OpUnbookmark Operation = "unbookmark"
)

type Policies map[Operation]Policy

func DefaultPolicies() Policies {
	return Policies{
		OpEnroll:     FullRollback,
		OpUnenroll:   LossyRollback,
		OpComplete:   NoRollback,
		OpBookmark:   NoRollback,
		OpUnbookmark: NoRollback,
	}
}

// Step describes one orchestrated operation. Mutate may be nil for
// operations with no local side. Undo and Reset are only consulted for the
// matching policy.
type Step struct {
	Op       Operation
	CourseID string
	UserID   string

	Mutate func(ctx context.Context) error
	Remote func(ctx context.Context) error
	Undo   func(ctx context.Context) error
	Reset  func(ctx context.Context) error
}

type Runner struct {
	policies Policies
	log      *logger.Logger
}

func NewRunner(policies Policies, log *logger.Logger) *Runner {
	if policies == nil {
		policies = DefaultPolicies()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{policies: policies, log: log}
}

func (r *Runner) Policy(op Operation) Policy {
	return r.policies[op]
}

// Run returns the Mutate error untouched. A remote failure yields nil under
// NoRollback and an error matching domain.ErrRemoteUnavailable otherwise.
func (r *Runner) Run(ctx context.Context, s Step) error {
	if s.Mutate != nil {
		if err := s.Mutate(ctx); err != nil {
			return err
		}
	}

	remoteErr := s.Remote(ctx)
	if remoteErr == nil {
		return nil
	}
	if !errors.Is(remoteErr, domain.ErrRemoteUnavailable) {
		remoteErr = fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, remoteErr)
	}

	policy := r.Policy(s.Op)
	log := r.log.With("op", string(s.Op), "course_id", s.CourseID, "user_id", s.UserID, "policy", policy.String())

	var compensate func(context.Context) error
	switch policy {
	case NoRollback:
		log.Warn("remote call failed, keeping local change", "error", remoteErr)
		return nil
	case FullRollback:
		compensate = s.Undo
	case LossyRollback:
		compensate = s.Reset
	}
	if compensate == nil {
		log.Error("remote call failed and no compensation is defined", "error", remoteErr)
		return remoteErr
	}

	log.Warn("remote call failed, compensating", "error", remoteErr)
	if err := compensate(context.WithoutCancel(ctx)); err != nil {
		log.Error("compensation failed", "error", err)
		return errors.Join(remoteErr, fmt.Errorf("compensate %s: %w", s.Op, err))
	}
	return remoteErr
}
