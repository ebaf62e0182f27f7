package aggregates

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/domain/collab"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_DomainCodes(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want domainagg.ErrorCode
	}{
		{"forbidden", ForbiddenError("not yours"), domainagg.CodeForbidden},
		{"not found sentinel", NotFoundError("contract not found"), domainagg.CodeNotFound},
		{"deliverable missing", collab.ErrDeliverableNotFound, domainagg.CodeNotFound},
		{"already exists", AlreadyExistsError("invited"), domainagg.CodeAlreadyExists},
		{"already finalized", AlreadyFinalizedError("accepted"), domainagg.CodeAlreadyFinalized},
		{"no pending tx", NoPendingTransactionError("none"), domainagg.CodeNoPendingTransaction},
		{"no pending deliverable", collab.ErrNoPendingDeliverable, domainagg.CodeNoPendingDeliverable},
		{"invalid amount", collab.ErrInvalidAmount, domainagg.CodeInvalidAmount},
		{"duplicate key", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, domainagg.CodePreconditionFailed},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: contract.relationship_id"), domainagg.CodeConflict},
		{"sqlite busy", errors.New("database is locked"), domainagg.CodeRetryable},
		{"deadline", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"anything else", errors.New("disk I/O error"), domainagg.CodePersistenceFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("Collab.Test", tc.in)
			if !domainagg.IsCode(err, tc.want) {
				t.Fatalf("want %q, got %q (%v)", tc.want, domainagg.CodeOf(err), err)
			}
		})
	}
}

func TestRecodeOnlyTouchesMatchingCode(t *testing.T) {
	conflict := MapError("Collab.Invite", gorm.ErrDuplicatedKey)
	got := domainagg.Recode(conflict, domainagg.CodeConflict, domainagg.CodeAlreadyExists, "creator already invited")
	if !domainagg.IsCode(got, domainagg.CodeAlreadyExists) {
		t.Fatalf("expected already_exists, got %v", got)
	}
	other := MapError("Collab.Invite", ForbiddenError("nope"))
	if out := domainagg.Recode(other, domainagg.CodeConflict, domainagg.CodeAlreadyExists, ""); out != other {
		t.Fatalf("expected untouched error, got %v", out)
	}
}
