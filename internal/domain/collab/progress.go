package collab

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrNoPendingDeliverable = errors.New("contract has no deliverables")
	ErrDeliverableNotFound  = errors.New("deliverable not found on contract")
)

func sortedByPosition(ds []Deliverable) []Deliverable {
	out := make([]Deliverable, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Progress is round(100 * approved / total), 0 for an empty contract.
func Progress(ds []Deliverable) int {
	if len(ds) == 0 {
		return 0
	}
	approved := 0
	for _, d := range ds {
		if d.Status == DeliverableApproved {
			approved++
		}
	}
	return int(math.Round(100 * float64(approved) / float64(len(ds))))
}

// NextDeliverable is the first PENDING deliverable in creation order.
func NextDeliverable(ds []Deliverable) *Deliverable {
	for _, d := range sortedByPosition(ds) {
		if d.Status == DeliverablePending {
			d := d
			return &d
		}
	}
	return nil
}

func AllApproved(ds []Deliverable) bool {
	if len(ds) == 0 {
		return false
	}
	for _, d := range ds {
		if d.Status != DeliverableApproved {
			return false
		}
	}
	return true
}

// SelectForSubmission picks the deliverable a submission applies to: the
// explicit id when given, else the next PENDING one, else the first overall.
func SelectForSubmission(ds []Deliverable, id *uuid.UUID) (*Deliverable, error) {
	if len(ds) == 0 {
		return nil, ErrNoPendingDeliverable
	}
	if id != nil && *id != uuid.Nil {
		for _, d := range ds {
			if d.ID == *id {
				d := d
				return &d, nil
			}
		}
		return nil, ErrDeliverableNotFound
	}
	if next := NextDeliverable(ds); next != nil {
		return next, nil
	}
	first := sortedByPosition(ds)[0]
	return &first, nil
}
