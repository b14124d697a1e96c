package usecase

import (
	"context"
	"time"

	"github.com/veltapay/custody/internal/domain"
)

// OnboardingUseCase is the boundary with the external KYC subsystem: approval
// flips the profile to verified and provisions the owner's wallet.
type OnboardingUseCase struct {
	txManager   TransactionManager
	profileRepo ProfileRepository
	walletRepo  WalletRepository
	outboxRepo  OutboxRepository
	auditUC     *AuditUseCase
	idGen       IDGenerator
}

// NewOnboardingUseCase creates a new OnboardingUseCase. outboxRepo may be nil.
func NewOnboardingUseCase(
	txManager TransactionManager,
	profileRepo ProfileRepository,
	walletRepo WalletRepository,
	outboxRepo OutboxRepository,
	auditUC *AuditUseCase,
	idGen IDGenerator,
) *OnboardingUseCase {
	return &OnboardingUseCase{
		txManager:   txManager,
		profileRepo: profileRepo,
		walletRepo:  walletRepo,
		outboxRepo:  outboxRepo,
		auditUC:     auditUC,
		idGen:       idGen,
	}
}

// ApproveProfileInput represents an onboarding approval.
type ApproveProfileInput struct {
	Actor    *domain.Actor
	OwnerID  string
	Currency string
	Reason   string
	Source   string
}

// ApproveProfile marks the owner verified and creates their wallet on first
// approval. Wallet creation is idempotent: a no-op if one already exists.
func (uc *OnboardingUseCase) ApproveProfile(ctx context.Context, input ApproveProfileInput) (*domain.Profile, error) {
	if input.Actor == nil || !input.Actor.Role.CanReview() {
		return nil, domain.ErrUnauthorized
	}

	profile, err := uc.profileRepo.GetByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	auditInput := RecordInput{
		Actor:       input.Actor,
		Action:      domain.AuditActionUpdate,
		EntityTable: "profiles",
		EntityID:    profile.ID,
		Previous:    domain.JSON{"status": string(profile.Status)},
		New:         domain.JSON{"status": string(domain.VerificationVerified)},
		Reason:      input.Reason,
		Source:      input.Source,
	}
	if err := uc.auditUC.Validate(auditInput); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	if err := uc.profileRepo.UpdateStatus(txCtx, tx, input.OwnerID, domain.VerificationVerified, now); err != nil {
		return nil, err
	}

	count, err := uc.walletRepo.CountByOwner(txCtx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		wallet := &domain.Wallet{
			ID:        uc.idGen.Generate(),
			OwnerID:   input.OwnerID,
			Currency:  input.Currency,
			CreatedAt: now,
		}
		if err := uc.walletRepo.Create(txCtx, tx, wallet); err != nil {
			return nil, err
		}

		if uc.outboxRepo != nil {
			event := &domain.OutboxEvent{
				ID:            uc.idGen.Generate(),
				AggregateID:   wallet.ID,
				AggregateType: domain.AggregateTypeWallet,
				EventType:     domain.EventTypeWalletCreated,
				Payload: map[string]any{
					"wallet_id": wallet.ID,
					"owner_id":  wallet.OwnerID,
					"currency":  wallet.Currency,
				},
				CreatedAt: now,
			}
			if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
				return nil, err
			}
		}
	}

	// The diff-based recorder drops the entry if the status did not actually
	// change, so re-approving a verified profile stays a no-op in the log.
	if _, err := uc.auditUC.RecordTx(txCtx, tx, auditInput); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	profile.Status = domain.VerificationVerified
	profile.UpdatedAt = now

	return profile, nil
}

// GetProfile returns the owner's verification profile.
func (uc *OnboardingUseCase) GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error) {
	return uc.profileRepo.GetByOwner(ctx, ownerID)
}
