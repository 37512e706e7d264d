package domain

import "fmt"

// Status messages recorded on transfer rows. Clients match on these strings,
// so they are fixed.
const (
	StatusSuccess           = "SUCCESS: Transaction executed."
	StatusInsufficientFunds = "FAILED: Sender does not have sufficient funds to proceed payment"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeInsufficientFunds
	OutcomeInternalFault
)

// Outcome is the closed result variant of a transfer execution. It renders to
// a status message instead of propagating as an error: a rejected transfer is
// a business result, not a failure of the attempt itself.
type Outcome struct {
	Kind  OutcomeKind
	fault string
}

func SuccessOutcome() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

func InsufficientFundsOutcome() Outcome {
	return Outcome{Kind: OutcomeInsufficientFunds}
}

func InternalFaultOutcome(description string) Outcome {
	return Outcome{Kind: OutcomeInternalFault, fault: description}
}

func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// Message renders the fixed status string persisted on the ledger row.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeSuccess:
		return StatusSuccess
	case OutcomeInsufficientFunds:
		return StatusInsufficientFunds
	default:
		return fmt.Sprintf("FAILED: %s", o.fault)
	}
}
