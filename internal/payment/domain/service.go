package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidMethod     = errors.New("invalid_method")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrInvalidPayload    = errors.New("invalid_payload")
	ErrForbiddenOwner    = errors.New("forbidden_owner")
)

type CreateRequest struct {
	ProfileID snowflake.ID
	TaxTypeID *snowflake.ID
	Amount    int64
	Method    Method
}

type SettleRequest struct {
	RequestID         snowflake.ID
	ProviderReference string
	ActorID           snowflake.ID
}

// SettleResult carries the settled request and the ledger after the
// settlement. AlreadySettled marks an idempotent repeat, which mutates nothing.
type SettleResult struct {
	Request        *PaymentRequest
	Ledger         *ledgerdomain.AccountLedger
	AlreadySettled bool
}

type ListRequest struct {
	ProfileID snowflake.ID
	Status    Status
	Limit     int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PaymentRequest, error)
	List(ctx context.Context, req ListRequest) ([]PaymentRequest, error)
	// Settle applies a pending payment request to its ledger exactly once.
	// Request transition and ledger update commit in one transaction; a repeat
	// call on a Paid request is a no-op returning the current ledger.
	Settle(ctx context.Context, req SettleRequest) (*SettleResult, error)
	MarkFailed(ctx context.Context, requestID, actorID snowflake.ID) (*PaymentRequest, error)
	Cancel(ctx context.Context, requestID, profileID snowflake.ID) (*PaymentRequest, error)
	// IngestWebhook resolves a provider notification to a payment request and
	// settles or fails it. Duplicate notifications are safe.
	IngestWebhook(ctx context.Context, provider string, payload []byte) error
}
