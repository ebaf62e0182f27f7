package aggregates

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/repos"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

const offerTable = "offer"

// OfferLedger keeps the single current offer of a relationship. It runs
// inside a caller-owned transaction and never touches candidate status.
type OfferLedger struct {
	offers repos.OfferRepo
	cas    CASGuard
}

func NewOfferLedger(offers repos.OfferRepo, cas CASGuard) *OfferLedger {
	return &OfferLedger{offers: offers, cas: cas}
}

// Current returns the relationship's offer, or nil when none was made yet.
func (l *OfferLedger) Current(dbc dbctx.Context, relationshipID uuid.UUID) (*collab.Offer, error) {
	offer, err := l.offers.GetByRelationshipID(dbc, relationshipID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// Upsert creates the offer or amends it in place. Every call appends exactly
// one history entry and leaves the offer PENDING.
func (l *OfferLedger) Upsert(dbc dbctx.Context, relationshipID uuid.UUID, amount float64, description string, at time.Time) (*collab.Offer, bool, error) {
	if err := collab.ValidateAmount(amount); err != nil {
		return nil, false, err
	}
	amount = collab.RoundMoney(amount)
	description = strings.TrimSpace(description)

	current, err := l.Current(dbc, relationshipID)
	if err != nil {
		return nil, false, err
	}
	if current == nil {
		offer := &collab.Offer{
			ID:                      uuid.New(),
			RelationshipID:          relationshipID,
			Amount:                  amount,
			DeliverablesDescription: description,
			Status:                  collab.OfferPending,
			History:                 collab.OfferHistory{}.Append(collab.HistoryCreated, amount, at),
		}
		if _, err := l.offers.Create(dbc, offer); err != nil {
			return nil, false, err
		}
		return offer, true, nil
	}
	if current.Status == collab.OfferAccepted {
		return nil, false, AlreadyFinalizedError("accepted offers are immutable")
	}

	history := current.History.Append(collab.HistoryUpdated, amount, at)
	ok, err := l.cas.Apply(dbc, Transition{
		Table: offerTable,
		ID:    current.ID,
		From:  StatusSet(collab.OfferPending),
		Set: map[string]any{
			"amount":                   amount,
			"deliverables_description": description,
			"history":                  history,
		},
		At: at,
	})
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, AlreadyFinalizedError("offer was accepted concurrently")
	}
	current.Amount = amount
	current.DeliverablesDescription = description
	current.History = history
	current.UpdatedAt = at
	return current, false, nil
}

// Accept flips the offer PENDING -> ACCEPTED. Of two concurrent callers only
// the one whose compare-and-set lands wins; the other gets AlreadyFinalized.
func (l *OfferLedger) Accept(dbc dbctx.Context, relationshipID uuid.UUID, at time.Time) (*collab.Offer, error) {
	current, err := l.Current(dbc, relationshipID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, NotFoundError("no offer for relationship " + relationshipID.String())
	}
	if current.Status == collab.OfferAccepted {
		return nil, AlreadyFinalizedError("offer already accepted")
	}
	history := current.History.Append(collab.HistoryAccepted, current.Amount, at)
	ok, err := l.cas.Apply(dbc, Transition{
		Table: offerTable,
		ID:    current.ID,
		From:  StatusSet(collab.OfferPending),
		Set:   map[string]any{"status": collab.OfferAccepted, "history": history},
		At:    at,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, AlreadyFinalizedError("offer already accepted")
	}
	current.Status = collab.OfferAccepted
	current.History = history
	current.UpdatedAt = at
	return current, nil
}
