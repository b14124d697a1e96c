package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateTransferRequest is the request body for creating a transfer.
type CreateTransferRequest struct {
	Amount          string `json:"amount" validate:"required"`
	Currency        string `json:"currency" validate:"required,len=3"`
	Kind            string `json:"kind" validate:"required"`
	Purpose         string `json:"purpose" validate:"required"`
	IdempotencyKey  string `json:"idempotency_key" validate:"required"`
	DestinationType string `json:"destination_type"`
	DestinationID   string `json:"destination_id"`
	Network         string `json:"network"`
}

// ToUseCaseInput converts the request to use case input. The owner comes from
// the authenticated actor, never from the body.
func (r *CreateTransferRequest) ToUseCaseInput(ownerID string) (usecase.CreateTransferInput, error) {
	if err := validate.Struct(r); err != nil {
		return usecase.CreateTransferInput{}, err
	}

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.CreateTransferInput{}, err
	}

	return usecase.CreateTransferInput{
		OwnerID:        ownerID,
		Amount:         amount,
		Currency:       r.Currency,
		Kind:           domain.TransferKind(r.Kind),
		Purpose:        domain.TransferPurpose(r.Purpose),
		IdempotencyKey: r.IdempotencyKey,
		Destination: domain.Destination{
			Type:       r.DestinationType,
			Identifier: r.DestinationID,
		},
		Network: r.Network,
	}, nil
}

// SettleTransferRequest is the request body for completing or failing a
// transfer. Reason is optional for a direct review decision.
type SettleTransferRequest struct {
	Reason string `json:"reason"`
}

// CreateOrderRequest is the request body for creating a payment order.
type CreateOrderRequest struct {
	OwnerID        string         `json:"owner_id"`
	OrderType      string         `json:"order_type" validate:"required"`
	Rail           string         `json:"rail" validate:"required"`
	OriginAmount   string         `json:"origin_amount" validate:"required"`
	OriginCurrency string         `json:"origin_currency" validate:"required,len=3"`
	BeneficiaryRef string         `json:"beneficiary_ref"`
	Metadata       map[string]any `json:"metadata"`
}

// ToUseCaseInput converts the request to use case input. For the manual path
// OwnerID from the body names the client the admin acts for; otherwise the
// authenticated actor is the owner.
func (r *CreateOrderRequest) ToUseCaseInput(actor *domain.Actor, manual bool) (usecase.CreateOrderInput, error) {
	if err := validate.Struct(r); err != nil {
		return usecase.CreateOrderInput{}, err
	}

	amount, err := decimal.NewFromString(r.OriginAmount)
	if err != nil {
		return usecase.CreateOrderInput{}, err
	}

	ownerID := actor.ID
	if manual && r.OwnerID != "" {
		ownerID = r.OwnerID
	}

	return usecase.CreateOrderInput{
		Actor:          actor,
		OwnerID:        ownerID,
		OrderType:      r.OrderType,
		Rail:           r.Rail,
		OriginAmount:   amount,
		OriginCurrency: r.OriginCurrency,
		BeneficiaryRef: r.BeneficiaryRef,
		Metadata:       r.Metadata,
		Manual:         manual,
	}, nil
}

// AdvanceOrderRequest is the request body for an order status change.
type AdvanceOrderRequest struct {
	Status          string `json:"status" validate:"required"`
	Rate            string `json:"rate"`
	ConvertedAmount string `json:"converted_amount"`
	Fee             string `json:"fee"`
	EvidenceRef     string `json:"evidence_ref"`
	Reference       string `json:"reference"`
	Reason          string `json:"reason" validate:"required"`
}

// ToTransitionInput converts the request to a domain transition input. Absent
// monetary fields parse as zero; the transition rules reject them where they
// are required.
func (r *AdvanceOrderRequest) ToTransitionInput() (domain.TransitionInput, error) {
	if err := validate.Struct(r); err != nil {
		return domain.TransitionInput{}, err
	}

	in := domain.TransitionInput{
		Requested:   domain.OrderStatus(r.Status),
		EvidenceRef: r.EvidenceRef,
		Reference:   r.Reference,
		Reason:      r.Reason,
	}

	var err error
	if in.Rate, err = parseOptionalDecimal(r.Rate); err != nil {
		return domain.TransitionInput{}, err
	}
	if in.ConvertedAmount, err = parseOptionalDecimal(r.ConvertedAmount); err != nil {
		return domain.TransitionInput{}, err
	}
	if in.Fee, err = parseOptionalDecimal(r.Fee); err != nil {
		return domain.TransitionInput{}, err
	}

	return in, nil
}

// ApproveProfileRequest is the request body for an onboarding approval.
type ApproveProfileRequest struct {
	Currency string `json:"currency" validate:"required,len=3"`
	Reason   string `json:"reason" validate:"required"`
}

// Validate checks the request fields.
func (r *ApproveProfileRequest) Validate() error {
	return validate.Struct(r)
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
