package aggregates

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/data/repos"
	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

const (
	deliverableTable   = "deliverable"
	deliverableRaceMsg = "deliverable changed concurrently"
)

// DeliverableTracker keeps the ordered content submissions of a contract.
type DeliverableTracker struct {
	deliverables repos.DeliverableRepo
	cas          CASGuard
}

func NewDeliverableTracker(deliverables repos.DeliverableRepo, cas CASGuard) *DeliverableTracker {
	return &DeliverableTracker{deliverables: deliverables, cas: cas}
}

type DeliverableSeed struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// SeedFromDescription seeds a single deliverable from free-text offer terms.
func SeedFromDescription(description string) DeliverableSeed {
	description = strings.TrimSpace(description)
	title := description
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if r := []rune(title); len(r) > 120 {
		title = string(r[:120])
	}
	if title == "" {
		title = "Campaign deliverable"
	}
	return DeliverableSeed{Title: title, Description: description}
}

// Seed appends deliverables after any existing ones, all PENDING.
func (t *DeliverableTracker) Seed(dbc dbctx.Context, contractID uuid.UUID, seeds []DeliverableSeed) ([]collab.Deliverable, error) {
	if len(seeds) == 0 {
		return []collab.Deliverable{}, nil
	}
	existing, err := t.deliverables.ListByContract(dbc, contractID)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, d := range existing {
		if d.Position >= next {
			next = d.Position + 1
		}
	}
	rows := make([]*collab.Deliverable, 0, len(seeds))
	for i, seed := range seeds {
		rows = append(rows, &collab.Deliverable{
			ID:          uuid.New(),
			ContractID:  contractID,
			Position:    next + i,
			Title:       strings.TrimSpace(seed.Title),
			Description: strings.TrimSpace(seed.Description),
			Status:      collab.DeliverablePending,
			DueDate:     seed.DueDate,
		})
	}
	if _, err := t.deliverables.Create(dbc, rows); err != nil {
		return nil, err
	}
	out := make([]collab.Deliverable, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}

func (t *DeliverableTracker) List(dbc dbctx.Context, contractID uuid.UUID) ([]collab.Deliverable, error) {
	rows, err := t.deliverables.ListByContract(dbc, contractID)
	if err != nil {
		return nil, err
	}
	out := make([]collab.Deliverable, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}

// Progress returns the rounded approval percentage and the next PENDING
// deliverable of a contract.
func (t *DeliverableTracker) Progress(dbc dbctx.Context, contractID uuid.UUID) (int, *collab.Deliverable, error) {
	ds, err := t.List(dbc, contractID)
	if err != nil {
		return 0, nil, err
	}
	return collab.Progress(ds), collab.NextDeliverable(ds), nil
}

// Submit records a submission. Without an explicit id it takes the next
// PENDING deliverable, falling back to the first one overall. APPROVED
// deliverables are never resubmitted.
func (t *DeliverableTracker) Submit(dbc dbctx.Context, contractID uuid.UUID, deliverableID *uuid.UUID, url, notes string, at time.Time) (collab.Deliverable, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return collab.Deliverable{}, ValidationError("submission url is required")
	}
	ds, err := t.List(dbc, contractID)
	if err != nil {
		return collab.Deliverable{}, err
	}
	target, err := collab.SelectForSubmission(ds, deliverableID)
	if err != nil {
		return collab.Deliverable{}, err
	}

	// Approval is final whether the target was named or picked by fallback.
	if target.Status == collab.DeliverableApproved {
		return collab.Deliverable{}, InvariantError("deliverable " + target.Title + " is already approved")
	}

	notes = strings.TrimSpace(notes)
	err = t.cas.MustApply(dbc, Transition{
		Table: deliverableTable,
		ID:    target.ID,
		From:  StatusSet(collab.DeliverablePending, collab.DeliverableSubmitted),
		Set: map[string]any{
			"status":           collab.DeliverableSubmitted,
			"submission_url":   url,
			"submission_notes": notes,
			"submitted_at":     at,
		},
		At: at,
	}, deliverableRaceMsg)
	if err != nil {
		return collab.Deliverable{}, err
	}
	target.Status = collab.DeliverableSubmitted
	target.SubmissionURL = url
	target.SubmissionNotes = notes
	target.SubmittedAt = &at
	target.UpdatedAt = at
	return *target, nil
}

func (t *DeliverableTracker) find(dbc dbctx.Context, contractID, deliverableID uuid.UUID) (*collab.Deliverable, error) {
	if deliverableID == uuid.Nil {
		return nil, ValidationError("missing deliverable id")
	}
	ds, err := t.List(dbc, contractID)
	if err != nil {
		return nil, err
	}
	for _, d := range ds {
		if d.ID == deliverableID {
			d := d
			return &d, nil
		}
	}
	return nil, collab.ErrDeliverableNotFound
}

// Approve accepts a SUBMITTED deliverable.
func (t *DeliverableTracker) Approve(dbc dbctx.Context, contractID, deliverableID uuid.UUID, at time.Time) (collab.Deliverable, error) {
	d, err := t.find(dbc, contractID, deliverableID)
	if err != nil {
		return collab.Deliverable{}, err
	}
	if d.Status != collab.DeliverableSubmitted {
		return collab.Deliverable{}, InvariantError("deliverable is " + string(d.Status) + ", only SUBMITTED can be approved")
	}
	err = t.cas.MustApply(dbc, Transition{
		Table: deliverableTable,
		ID:    d.ID,
		From:  StatusSet(collab.DeliverableSubmitted),
		Set:   map[string]any{"status": collab.DeliverableApproved, "approved_at": at},
		At:    at,
	}, deliverableRaceMsg)
	if err != nil {
		return collab.Deliverable{}, err
	}
	d.Status = collab.DeliverableApproved
	d.ApprovedAt = &at
	d.UpdatedAt = at
	return *d, nil
}

// RequestRevision sends a SUBMITTED deliverable back to PENDING. APPROVED
// deliverables never move back.
func (t *DeliverableTracker) RequestRevision(dbc dbctx.Context, contractID, deliverableID uuid.UUID, at time.Time) (collab.Deliverable, error) {
	d, err := t.find(dbc, contractID, deliverableID)
	if err != nil {
		return collab.Deliverable{}, err
	}
	if d.Status != collab.DeliverableSubmitted {
		return collab.Deliverable{}, InvariantError("deliverable is " + string(d.Status) + ", only SUBMITTED can be sent back")
	}
	err = t.cas.MustApply(dbc, Transition{
		Table: deliverableTable,
		ID:    d.ID,
		From:  StatusSet(collab.DeliverableSubmitted),
		Set:   map[string]any{"status": collab.DeliverablePending},
		At:    at,
	}, deliverableRaceMsg)
	if err != nil {
		return collab.Deliverable{}, err
	}
	d.Status = collab.DeliverablePending
	d.UpdatedAt = at
	return *d, nil
}
