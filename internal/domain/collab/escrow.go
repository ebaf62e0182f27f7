package collab

import "sort"

type EscrowTotals struct {
	Funded   float64 `json:"funded"`
	Released float64 `json:"released"`
	Pending  float64 `json:"pending"`
}

// Totals sums a contract's escrow: funded counts FUNDED and RELEASED,
// released counts RELEASED only.
func Totals(txs []EscrowTransaction) EscrowTotals {
	var t EscrowTotals
	for _, tx := range txs {
		switch tx.Status {
		case EscrowFunded:
			t.Funded += tx.Amount
		case EscrowReleased:
			t.Funded += tx.Amount
			t.Released += tx.Amount
		case EscrowPending:
			t.Pending += tx.Amount
		}
	}
	t.Funded = RoundMoney(t.Funded)
	t.Released = RoundMoney(t.Released)
	t.Pending = RoundMoney(t.Pending)
	return t
}

// FirstWithStatus returns the oldest transaction in the given status.
func FirstWithStatus(txs []EscrowTransaction, status EscrowStatus) *EscrowTransaction {
	ordered := make([]EscrowTransaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].CreatedAt.Before(ordered[j].CreatedAt) })
	for _, tx := range ordered {
		if tx.Status == status {
			tx := tx
			return &tx
		}
	}
	return nil
}

// AnyFunded reports whether money has already moved into escrow.
func AnyFunded(txs []EscrowTransaction) bool {
	for _, tx := range txs {
		if tx.Status == EscrowFunded || tx.Status == EscrowReleased {
			return true
		}
	}
	return false
}
