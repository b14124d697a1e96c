package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a payment order.
type OrderStatus string

const (
	OrderStatusCreated         OrderStatus = "created"
	OrderStatusWaitingDeposit  OrderStatus = "waiting_deposit"
	OrderStatusDepositReceived OrderStatus = "deposit_received"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusFailed          OrderStatus = "failed"
)

var validOrderStatuses = map[OrderStatus]bool{
	OrderStatusCreated:         true,
	OrderStatusWaitingDeposit:  true,
	OrderStatusDepositReceived: true,
	OrderStatusProcessing:      true,
	OrderStatusCompleted:       true,
	OrderStatusFailed:          true,
}

// IsValid checks if the status is known.
func (s OrderStatus) IsValid() bool {
	return validOrderStatuses[s]
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

// Funded reports whether money has already moved for an order in this status.
func (s OrderStatus) Funded() bool {
	switch s {
	case OrderStatusDepositReceived, OrderStatusProcessing, OrderStatusCompleted:
		return true
	}
	return false
}

// A deposit can physically arrive before anyone marks the order waiting, so
// deposit confirmation is reachable from either pre-deposit state.
var orderPipeline = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:         {OrderStatusWaitingDeposit, OrderStatusDepositReceived},
	OrderStatusWaitingDeposit:  {OrderStatusDepositReceived},
	OrderStatusDepositReceived: {OrderStatusProcessing},
	OrderStatusProcessing:      {OrderStatusCompleted},
}

// PaymentOrder is a staff-mediated cross-rail payment with a richer lifecycle
// than Transfer, used for manual and semi-manual rails.
type PaymentOrder struct {
	ID                string
	OwnerID           string
	OrderType         string
	Rail              string
	OriginAmount      decimal.Decimal
	OriginCurrency    string
	ConvertedAmount   decimal.Decimal
	ConvertedCurrency string
	Rate              decimal.Decimal
	TotalFee          decimal.Decimal
	Status            OrderStatus
	BeneficiaryRef    string
	EvidenceRef       string
	ProofRef          string
	Metadata          map[string]any
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TransitionInput carries everything a status change needs: the requested
// state, the monetary terms fixed at deposit_received -> processing, the
// settlement proof for completion, and the operator's justification.
type TransitionInput struct {
	Requested       OrderStatus
	Rate            decimal.Decimal
	ConvertedAmount decimal.Decimal
	Fee             decimal.Decimal
	EvidenceRef     string
	Reference       string
	Reason          string
}

// PlanTransition is the single authoritative transition function. It validates
// the requested change against the current status, the supplied fields and the
// actor's role, and returns the typed rejection the caller reports. The order
// itself is not mutated here; the store applies the change conditionally on
// the status this plan was computed from.
func (o *PaymentOrder) PlanTransition(in TransitionInput, role Role) error {
	if !in.Requested.IsValid() {
		return ErrInvalidTransition
	}
	if !role.CanReview() {
		return ErrUnauthorized
	}

	// Void path: reachable from any non-terminal state, justification required.
	if in.Requested == OrderStatusFailed {
		if o.Status.Terminal() {
			return ErrInvalidTransition
		}
		if len(in.Reason) < MinAuditReasonLength {
			return ErrValidationFailed
		}
		return nil
	}

	// Regression of a funded order is an admin-only correction.
	if in.Requested == OrderStatusCreated && o.Status.Funded() {
		if !role.CanRegressFundedOrder() {
			return ErrUnauthorized
		}
		return nil
	}

	allowed := false
	for _, next := range orderPipeline[o.Status] {
		if next == in.Requested {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidTransition
	}

	switch in.Requested {
	case OrderStatusProcessing:
		// Financial terms are fixed here, before execution. The fee may be
		// zero on a waived rail but must be supplied, never negative.
		if in.Rate.LessThanOrEqual(decimal.Zero) ||
			in.ConvertedAmount.LessThanOrEqual(decimal.Zero) ||
			in.Fee.IsNegative() {
			return ErrInvalidTransition
		}
	case OrderStatusCompleted:
		// Settlement proof: an uploaded evidence file or a reference string,
		// at least one.
		if in.EvidenceRef == "" && in.Reference == "" {
			return ErrInvalidTransition
		}
	}

	return nil
}

// Apply mutates the order with the planned transition. Call only after
// PlanTransition accepted the input.
func (o *PaymentOrder) Apply(in TransitionInput, now time.Time) {
	switch in.Requested {
	case OrderStatusProcessing:
		o.Rate = in.Rate
		o.ConvertedAmount = in.ConvertedAmount
		o.TotalFee = in.Fee
	case OrderStatusCompleted:
		if in.EvidenceRef != "" {
			o.EvidenceRef = in.EvidenceRef
		}
		if in.Reference != "" {
			o.ProofRef = in.Reference
		}
	}

	o.Status = in.Requested
	o.UpdatedAt = now
}

// Validate checks a new order before creation.
func (o *PaymentOrder) Validate() error {
	if o.OwnerID == "" || o.Rail == "" {
		return ErrValidationFailed
	}
	if o.OriginAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}
