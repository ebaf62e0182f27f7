package collab

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type OfferAction string

const (
	HistoryCreated  OfferAction = "CREATED"
	HistoryUpdated  OfferAction = "UPDATED"
	HistoryAccepted OfferAction = "ACCEPTED"
)

type OfferHistoryEntry struct {
	Action OfferAction `json:"action"`
	Amount float64     `json:"amount"`
	At     time.Time   `json:"at"`
}

// OfferHistory is the append-only negotiation trail of an offer. It is
// stored as a JSON array but only ever grows through Append.
type OfferHistory []OfferHistoryEntry

// Append returns a copy of h with one more entry; h itself is untouched so a
// failed write never leaves a half-appended history in memory.
func (h OfferHistory) Append(action OfferAction, amount float64, at time.Time) OfferHistory {
	out := make(OfferHistory, len(h), len(h)+1)
	copy(out, h)
	return append(out, OfferHistoryEntry{Action: action, Amount: RoundMoney(amount), At: at.UTC()})
}

func (h OfferHistory) Last() (OfferHistoryEntry, bool) {
	if len(h) == 0 {
		return OfferHistoryEntry{}, false
	}
	return h[len(h)-1], true
}

func (h OfferHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]OfferHistoryEntry(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (h *OfferHistory) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*h = OfferHistory{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("offer history: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*h = OfferHistory{}
		return nil
	}
	var entries []OfferHistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("offer history: %w", err)
	}
	*h = entries
	return nil
}

func (OfferHistory) GormDataType() string { return "json" }

func (OfferHistory) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}
