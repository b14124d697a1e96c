package dto

import (
	"time"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/usecase"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TransferResponse is the API representation of a transfer.
type TransferResponse struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"owner_id"`
	Kind           string         `json:"kind"`
	Purpose        string         `json:"purpose"`
	Amount         string         `json:"amount"`
	Currency       string         `json:"currency"`
	Fee            string         `json:"fee"`
	Net            string         `json:"net"`
	Status         string         `json:"status"`
	Destination    Destination    `json:"destination"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Destination is the API representation of a transfer destination.
type Destination struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		ID:       t.ID,
		OwnerID:  t.OwnerID,
		Kind:     string(t.Kind),
		Purpose:  string(t.Purpose),
		Amount:   t.Amount.String(),
		Currency: t.Currency,
		Fee:      t.Fee.String(),
		Net:      t.Net.String(),
		Status:   string(t.Status),
		Destination: Destination{
			Type:       t.Destination.Type,
			Identifier: t.Destination.Identifier,
		},
		Metadata:  t.Metadata,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TransfersFromDomain converts a slice of domain transfers.
func TransfersFromDomain(transfers []*domain.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, TransferFromDomain(t))
	}
	return out
}

// OrderResponse is the API representation of a payment order.
type OrderResponse struct {
	ID                string         `json:"id"`
	OwnerID           string         `json:"owner_id"`
	OrderType         string         `json:"order_type"`
	Rail              string         `json:"rail"`
	OriginAmount      string         `json:"origin_amount"`
	OriginCurrency    string         `json:"origin_currency"`
	ConvertedAmount   string         `json:"converted_amount"`
	ConvertedCurrency string         `json:"converted_currency,omitempty"`
	Rate              string         `json:"rate"`
	TotalFee          string         `json:"total_fee"`
	Status            string         `json:"status"`
	BeneficiaryRef    string         `json:"beneficiary_ref,omitempty"`
	EvidenceRef       string         `json:"evidence_ref,omitempty"`
	ProofRef          string         `json:"proof_ref,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// OrderFromDomain converts a domain payment order to a response.
func OrderFromDomain(o *domain.PaymentOrder) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		OwnerID:           o.OwnerID,
		OrderType:         o.OrderType,
		Rail:              o.Rail,
		OriginAmount:      o.OriginAmount.String(),
		OriginCurrency:    o.OriginCurrency,
		ConvertedAmount:   o.ConvertedAmount.String(),
		ConvertedCurrency: o.ConvertedCurrency,
		Rate:              o.Rate.String(),
		TotalFee:          o.TotalFee.String(),
		Status:            string(o.Status),
		BeneficiaryRef:    o.BeneficiaryRef,
		EvidenceRef:       o.EvidenceRef,
		ProofRef:          o.ProofRef,
		Metadata:          o.Metadata,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// OrdersFromDomain converts a slice of domain orders.
func OrdersFromDomain(orders []*domain.PaymentOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderFromDomain(o))
	}
	return out
}

// BalanceResponse is the derived balance of a wallet.
type BalanceResponse struct {
	WalletID string     `json:"wallet_id"`
	OwnerID  string     `json:"owner_id"`
	Currency string     `json:"currency"`
	Balance  string     `json:"balance"`
	AsOf     *time.Time `json:"as_of,omitempty"`
}

// EntryResponse is the API representation of a ledger entry.
type EntryResponse struct {
	ID          string         `json:"id"`
	WalletID    string         `json:"wallet_id"`
	Type        string         `json:"type"`
	Amount      string         `json:"amount"`
	TransferID  *string        `json:"transfer_id,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		WalletID:    e.WalletID,
		Type:        string(e.Type),
		Amount:      e.Amount.String(),
		TransferID:  e.TransferID,
		Description: e.Description,
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts a slice of domain entries.
func EntriesFromDomain(entries []*domain.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryFromDomain(e))
	}
	return out
}

// ProfileResponse is the API representation of a verification profile.
type ProfileResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileFromDomain converts a domain profile to a response.
func ProfileFromDomain(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Status:    string(p.Status),
		UpdatedAt: p.UpdatedAt,
		CreatedAt: p.CreatedAt,
	}
}

// AuditLogResponse is the API representation of an audit entry.
type AuditLogResponse struct {
	ID            string         `json:"id"`
	ActorID       string         `json:"actor_id"`
	ActorRole     string         `json:"actor_role"`
	Action        string         `json:"action"`
	EntityTable   string         `json:"entity_table"`
	EntityID      string         `json:"entity_id"`
	ChangedFields []string       `json:"changed_fields,omitempty"`
	Previous      map[string]any `json:"previous,omitempty"`
	New           map[string]any `json:"new,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Source        string         `json:"source,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:            l.ID,
		ActorID:       l.ActorID,
		ActorRole:     string(l.ActorRole),
		Action:        string(l.Action),
		EntityTable:   l.EntityTable,
		EntityID:      l.EntityID,
		ChangedFields: l.ChangedFields,
		Previous:      l.Previous,
		New:           l.New,
		Reason:        l.Reason,
		Source:        l.Source,
		CreatedAt:     l.CreatedAt,
	}
}

// AuditLogsFromDomain converts a slice of domain audit logs.
func AuditLogsFromDomain(logs []*domain.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditLogFromDomain(l))
	}
	return out
}

// ConsistencyResponse summarizes a ledger consistency check.
type ConsistencyResponse struct {
	Consistent      bool     `json:"consistent"`
	TotalDeposits   string   `json:"total_deposits"`
	TotalPayouts    string   `json:"total_payouts"`
	SumOfBalances   string   `json:"sum_of_balances"`
	NegativeWallets []string `json:"negative_wallets,omitempty"`
}

// ConsistencyFromReport converts a reconciliation report to a response.
func ConsistencyFromReport(r *usecase.Report) ConsistencyResponse {
	return ConsistencyResponse{
		Consistent:      r.Consistent,
		TotalDeposits:   r.TotalDeposits.String(),
		TotalPayouts:    r.TotalPayouts.String(),
		SumOfBalances:   r.SumOfBalances.String(),
		NegativeWallets: r.NegativeWallets,
	}
}
