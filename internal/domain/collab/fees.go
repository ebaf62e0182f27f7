package collab

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidAmount = errors.New("amount must be a positive finite number")

// ValidateAmount rejects zero, negative, NaN and infinite amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	if RoundMoney(amount) <= 0 {
		return fmt.Errorf("%w: %v rounds to zero", ErrInvalidAmount, amount)
	}
	return nil
}

// RoundMoney rounds to the minor currency unit.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders an amount for notification text, e.g. "₹5000".
func FormatAmount(v float64) string {
	return "₹" + strconv.FormatFloat(RoundMoney(v), 'f', -1, 64)
}

// FeePolicy holds the platform rates per origination path.
type FeePolicy struct {
	NegotiatedFeeRate float64 `yaml:"negotiated_fee_rate"`
	DirectHireFeeRate float64 `yaml:"direct_hire_fee_rate"`
	DirectHireTaxRate float64 `yaml:"direct_hire_tax_rate"`
}

func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		NegotiatedFeeRate: 0.10,
		DirectHireFeeRate: 0.05,
		DirectHireTaxRate: 0.18,
	}
}

func (p FeePolicy) Validate() error {
	for name, rate := range map[string]float64{
		"negotiated_fee_rate":  p.NegotiatedFeeRate,
		"direct_hire_fee_rate": p.DirectHireFeeRate,
		"direct_hire_tax_rate": p.DirectHireTaxRate,
	} {
		if math.IsNaN(rate) || rate < 0 || rate >= 1 {
			return fmt.Errorf("fee policy: %s must be in [0,1), got %v", name, rate)
		}
	}
	return nil
}

// LoadFeePolicy reads a YAML override on top of the defaults. An empty path
// yields the defaults.
func LoadFeePolicy(path string) (FeePolicy, error) {
	policy := DefaultFeePolicy()
	path = strings.TrimSpace(path)
	if path == "" {
		return policy, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return FeePolicy{}, fmt.Errorf("read fee policy: %w", err)
	}
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return FeePolicy{}, fmt.Errorf("parse fee policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return FeePolicy{}, err
	}
	return policy, nil
}

// ContractTerms is one row of the origination matrix.
type ContractTerms struct {
	Kind           ContractKind
	TotalAmount    float64
	PlatformFee    float64
	TaxAmount      float64
	EscrowAmount   float64
	ContractStatus ContractStatus
	EscrowStatus   EscrowStatus
}

// Terms derives money and initial statuses for a contract of the given kind.
//
//	NEGOTIATED   fee 10%, no tax, escrow = amount,             DRAFT  + PENDING
//	DIRECT_HIRE  fee 5%,  tax 18%, escrow = amount + fee + tax, ACTIVE + FUNDED
func Terms(kind ContractKind, amount float64, policy FeePolicy) (ContractTerms, error) {
	if err := ValidateAmount(amount); err != nil {
		return ContractTerms{}, err
	}
	total := RoundMoney(amount)
	switch kind {
	case KindNegotiated:
		return ContractTerms{
			Kind:           kind,
			TotalAmount:    total,
			PlatformFee:    RoundMoney(total * policy.NegotiatedFeeRate),
			TaxAmount:      0,
			EscrowAmount:   total,
			ContractStatus: ContractDraft,
			EscrowStatus:   EscrowPending,
		}, nil
	case KindDirectHire:
		fee := RoundMoney(total * policy.DirectHireFeeRate)
		tax := RoundMoney(total * policy.DirectHireTaxRate)
		return ContractTerms{
			Kind:           kind,
			TotalAmount:    total,
			PlatformFee:    fee,
			TaxAmount:      tax,
			EscrowAmount:   RoundMoney(total + fee + tax),
			ContractStatus: ContractActive,
			EscrowStatus:   EscrowFunded,
		}, nil
	default:
		return ContractTerms{}, fmt.Errorf("unknown contract kind %q", kind)
	}
}
