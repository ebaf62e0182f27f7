package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrInvariant indicates invariant rule violation, e.g. an illegal status transition.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrConflict indicates optimistic/concurrency conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
	// ErrForbidden indicates the actor does not own or administer the target.
	ErrForbidden = errors.New("aggregate forbidden")
	// ErrNotFound indicates a missing relationship, contract or deliverable.
	ErrNotFound = errors.New("aggregate not found")

	ErrAlreadyExists        = errors.New("already exists")
	ErrAlreadyFinalized     = errors.New("offer already finalized")
	ErrNoPendingTransaction = errors.New("no pending escrow transaction")
)

func tagged(sentinel error, msg string) error {
	return errors.Join(sentinel, errors.New(strings.TrimSpace(msg)))
}

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error { return tagged(ErrValidation, msg) }

// InvariantError tags an error as invariant violation.
func InvariantError(msg string) error { return tagged(ErrInvariant, msg) }

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error { return tagged(ErrConflict, msg) }

// RetryableError tags an error as retryable failure.
func RetryableError(msg string) error { return tagged(ErrRetryable, msg) }

func ForbiddenError(msg string) error { return tagged(ErrForbidden, msg) }

func NotFoundError(msg string) error { return tagged(ErrNotFound, msg) }

func AlreadyExistsError(msg string) error { return tagged(ErrAlreadyExists, msg) }

func AlreadyFinalizedError(msg string) error { return tagged(ErrAlreadyFinalized, msg) }

func NoPendingTransactionError(msg string) error { return tagged(ErrNoPendingTransaction, msg) }

// MapError maps infrastructure/domain failures into aggregate error codes.
// Store failures with no more specific meaning become persistence_failure.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrInvariant):
		return domainagg.Wrap(domainagg.CodeInvariantViolation, op, err)
	case errors.Is(err, ErrConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrRetryable):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	case errors.Is(err, ErrForbidden):
		return domainagg.Wrap(domainagg.CodeForbidden, op, err)
	case errors.Is(err, ErrNotFound), errors.Is(err, collab.ErrDeliverableNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, ErrAlreadyExists):
		return domainagg.Wrap(domainagg.CodeAlreadyExists, op, err)
	case errors.Is(err, ErrAlreadyFinalized):
		return domainagg.Wrap(domainagg.CodeAlreadyFinalized, op, err)
	case errors.Is(err, ErrNoPendingTransaction):
		return domainagg.Wrap(domainagg.CodeNoPendingTransaction, op, err)
	case errors.Is(err, collab.ErrNoPendingDeliverable):
		return domainagg.Wrap(domainagg.CodeNoPendingDeliverable, op, err)
	case errors.Is(err, collab.ErrInvalidAmount):
		return domainagg.Wrap(domainagg.CodeInvalidAmount, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "23503":
			return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "already exists"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodePersistenceFailure, op, err)
	}
}
