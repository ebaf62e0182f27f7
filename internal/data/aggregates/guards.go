package aggregates

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

// Transition is one guarded status move: the row identified by Table+ID is
// updated with Set only while its status is still one of From.
type Transition struct {
	Table string
	ID    uuid.UUID
	From  []string
	Set   map[string]any
	// At, when set, is written to updated_at unless Set already carries it.
	At time.Time
}

// StatusSet converts typed status constants into the plain strings a
// Transition matches on.
func StatusSet[S ~string](statuses ...S) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// CASGuard applies status transitions as compare-and-set updates so that
// of two concurrent writers only one lands.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) conn(dbc dbctx.Context) (*gorm.DB, error) {
	switch {
	case dbc.Tx != nil:
		return dbc.Tx.WithContext(dbc.Ctx), nil
	case g.db != nil:
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// Apply reports whether the transition landed. ok=false with a nil error
// means the row was no longer in any From status.
func (g CASGuard) Apply(dbc dbctx.Context, t Transition) (bool, error) {
	table := strings.TrimSpace(t.Table)
	if table == "" || t.ID == uuid.Nil {
		return false, ValidationError("transition needs a table and row id")
	}
	if len(t.From) == 0 {
		return false, ValidationError("transition needs at least one source status")
	}
	if len(t.Set) == 0 {
		return false, ValidationError("transition has nothing to update")
	}
	db, err := g.conn(dbc)
	if err != nil {
		return false, err
	}
	set := t.Set
	if _, has := set["updated_at"]; !has && !t.At.IsZero() {
		set = make(map[string]any, len(t.Set)+1)
		for k, v := range t.Set {
			set[k] = v
		}
		set["updated_at"] = t.At
	}
	res := db.Table(table).Where("id = ? AND status IN ?", t.ID, t.From).Updates(set)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MustApply is Apply where losing the race is a conflict.
func (g CASGuard) MustApply(dbc dbctx.Context, t Transition, conflictMsg string) error {
	ok, err := g.Apply(dbc, t)
	if err != nil {
		return err
	}
	return RequireCASSuccess(ok, conflictMsg)
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}
