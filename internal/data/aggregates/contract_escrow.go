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
	contractTable = "contract"
	escrowTable   = "escrow_transaction"
)

// ContractEscrow owns contract money state and its escrow transactions.
type ContractEscrow struct {
	contracts repos.ContractRepo
	escrow    repos.EscrowRepo
	cas       CASGuard
	policy    collab.FeePolicy
}

func NewContractEscrow(contracts repos.ContractRepo, escrow repos.EscrowRepo, cas CASGuard, policy collab.FeePolicy) *ContractEscrow {
	return &ContractEscrow{contracts: contracts, escrow: escrow, cas: cas, policy: policy}
}

type OriginateInput struct {
	Kind           collab.ContractKind
	RelationshipID uuid.UUID
	Amount         float64
	Terms          string
	StartDate      time.Time
	EndDate        *time.Time
}

type Origination struct {
	Contract collab.Contract
	Escrow   collab.EscrowTransaction
}

// Originate is the single contract creation path. The fee matrix in
// collab.Terms decides money and initial statuses per kind; exactly one
// escrow transaction is created alongside.
func (m *ContractEscrow) Originate(dbc dbctx.Context, in OriginateInput) (Origination, error) {
	var out Origination
	if in.RelationshipID == uuid.Nil {
		return out, ValidationError("missing relationship id")
	}
	terms, err := collab.Terms(in.Kind, in.Amount, m.policy)
	if err != nil {
		return out, err
	}
	start := in.StartDate.UTC()

	contract := &collab.Contract{
		ID:             uuid.New(),
		RelationshipID: in.RelationshipID,
		Kind:           terms.Kind,
		TotalAmount:    terms.TotalAmount,
		PlatformFee:    terms.PlatformFee,
		TaxAmount:      terms.TaxAmount,
		Status:         terms.ContractStatus,
		StartDate:      start,
		EndDate:        in.EndDate,
		Terms:          strings.TrimSpace(in.Terms),
	}
	if _, err := m.contracts.Create(dbc, contract); err != nil {
		return out, err
	}

	tx := &collab.EscrowTransaction{
		ID:         uuid.New(),
		ContractID: contract.ID,
		Amount:     terms.EscrowAmount,
		Type:       collab.EscrowDeposit,
		Status:     terms.EscrowStatus,
	}
	if terms.EscrowStatus == collab.EscrowFunded {
		tx.FundedAt = &start
	}
	if _, err := m.escrow.Create(dbc, []*collab.EscrowTransaction{tx}); err != nil {
		return out, err
	}

	out.Contract = *contract
	out.Escrow = *tx
	return out, nil
}

func (m *ContractEscrow) Contract(dbc dbctx.Context, contractID uuid.UUID) (*collab.Contract, error) {
	return m.contracts.GetByID(dbc, contractID)
}

func (m *ContractEscrow) Transactions(dbc dbctx.Context, contractID uuid.UUID) ([]collab.EscrowTransaction, error) {
	rows, err := m.escrow.ListByContract(dbc, contractID)
	if err != nil {
		return nil, err
	}
	out := make([]collab.EscrowTransaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}

func (m *ContractEscrow) Totals(dbc dbctx.Context, contractID uuid.UUID) (collab.EscrowTotals, error) {
	txs, err := m.Transactions(dbc, contractID)
	if err != nil {
		return collab.EscrowTotals{}, err
	}
	return collab.Totals(txs), nil
}

// FundOutcome reports what Fund did. When AlreadyFunded is set nothing was
// written and Transaction is the oldest funded one.
type FundOutcome struct {
	Transaction   collab.EscrowTransaction
	AlreadyFunded bool
}

// NextPending returns the first PENDING transaction, or the oldest funded
// one with alreadyFunded set when nothing is pending.
func (m *ContractEscrow) NextPending(dbc dbctx.Context, contractID uuid.UUID) (FundOutcome, error) {
	txs, err := m.Transactions(dbc, contractID)
	if err != nil {
		return FundOutcome{}, err
	}
	if pending := collab.FirstWithStatus(txs, collab.EscrowPending); pending != nil {
		return FundOutcome{Transaction: *pending}, nil
	}
	if funded := collab.FirstWithStatus(txs, collab.EscrowFunded); funded != nil {
		return FundOutcome{Transaction: *funded, AlreadyFunded: true}, nil
	}
	if released := collab.FirstWithStatus(txs, collab.EscrowReleased); released != nil {
		return FundOutcome{Transaction: *released, AlreadyFunded: true}, nil
	}
	return FundOutcome{}, NoPendingTransactionError("contract has no pending escrow transaction")
}

// Fund moves the contract's first PENDING transaction to FUNDED and the
// contract from DRAFT to ACTIVE. A caller that loses the compare-and-set
// gets AlreadyFunded and writes nothing. A non-blank gatewayRef is stored on
// the funded transaction.
func (m *ContractEscrow) Fund(dbc dbctx.Context, contractID uuid.UUID, gatewayRef string, at time.Time) (FundOutcome, error) {
	next, err := m.NextPending(dbc, contractID)
	if err != nil || next.AlreadyFunded {
		return next, err
	}
	set := map[string]any{"status": collab.EscrowFunded, "funded_at": at}
	ref := strings.TrimSpace(gatewayRef)
	if ref != "" {
		set["gateway_ref"] = ref
	}
	ok, err := m.cas.Apply(dbc, Transition{
		Table: escrowTable,
		ID:    next.Transaction.ID,
		From:  StatusSet(collab.EscrowPending),
		Set:   set,
		At:    at,
	})
	if err != nil {
		return FundOutcome{}, err
	}
	if !ok {
		current, err := m.escrow.GetByID(dbc, next.Transaction.ID)
		if err != nil {
			return FundOutcome{}, err
		}
		return FundOutcome{Transaction: *current, AlreadyFunded: true}, nil
	}
	if _, err := m.cas.Apply(dbc, Transition{
		Table: contractTable,
		ID:    contractID,
		From:  StatusSet(collab.ContractDraft),
		Set:   map[string]any{"status": collab.ContractActive},
		At:    at,
	}); err != nil {
		return FundOutcome{}, err
	}
	next.Transaction.Status = collab.EscrowFunded
	next.Transaction.FundedAt = &at
	if ref != "" {
		next.Transaction.GatewayRef = &ref
	}
	next.Transaction.UpdatedAt = at
	return next, nil
}

// Release marks the first FUNDED transaction RELEASED. Payout itself happens
// outside the engine.
func (m *ContractEscrow) Release(dbc dbctx.Context, contractID uuid.UUID, gatewayRef string, at time.Time) (collab.EscrowTransaction, error) {
	txs, err := m.Transactions(dbc, contractID)
	if err != nil {
		return collab.EscrowTransaction{}, err
	}
	funded := collab.FirstWithStatus(txs, collab.EscrowFunded)
	if funded == nil {
		return collab.EscrowTransaction{}, NoPendingTransactionError("contract has no funded transaction to release")
	}
	updates := map[string]any{
		"status":      collab.EscrowReleased,
		"released_at": at,
	}
	if ref := strings.TrimSpace(gatewayRef); ref != "" {
		updates["gateway_ref"] = ref
		funded.GatewayRef = &ref
	}
	err = m.cas.MustApply(dbc, Transition{
		Table: escrowTable,
		ID:    funded.ID,
		From:  StatusSet(collab.EscrowFunded),
		Set:   updates,
		At:    at,
	}, "escrow transaction changed concurrently")
	if err != nil {
		return collab.EscrowTransaction{}, err
	}
	funded.Status = collab.EscrowReleased
	funded.ReleasedAt = &at
	funded.UpdatedAt = at
	return *funded, nil
}

// Complete closes an ACTIVE contract.
func (m *ContractEscrow) Complete(dbc dbctx.Context, contract *collab.Contract, at time.Time) error {
	updates := map[string]any{"status": collab.ContractCompleted}
	if contract.EndDate == nil {
		updates["end_date"] = at
	}
	ok, err := m.cas.Apply(dbc, Transition{
		Table: contractTable,
		ID:    contract.ID,
		From:  StatusSet(collab.ContractActive),
		Set:   updates,
		At:    at,
	})
	if err != nil {
		return err
	}
	if !ok {
		return InvariantError("only an active contract can be completed, contract is " + string(contract.Status))
	}
	contract.Status = collab.ContractCompleted
	if contract.EndDate == nil {
		contract.EndDate = &at
	}
	return nil
}
