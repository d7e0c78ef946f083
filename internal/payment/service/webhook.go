package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/civistack/revena/internal/payment/domain"
	"go.uber.org/zap"
)

// providerNotification is the normalized shape posted by payment providers.
type providerNotification struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// IngestWebhook maps a provider callback onto the settlement path. Providers
// retry deliveries, so hitting an already-paid request is answered as success.
func (s *Service) IngestWebhook(ctx context.Context, provider string, payload []byte) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || !json.Valid(payload) {
		return domain.ErrInvalidPayload
	}

	var note providerNotification
	if err := json.Unmarshal(payload, &note); err != nil {
		return domain.ErrInvalidPayload
	}

	reference := strings.TrimSpace(note.Reference)
	if reference == "" {
		return domain.ErrInvalidPayload
	}

	request, err := s.repo.FindByReference(ctx, s.db, reference)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrNotFound
	}

	s.log.Info("provider notification received",
		zap.String("provider", provider),
		zap.String("reference", reference),
		zap.String("request_id", request.ID.String()),
		zap.String("status", note.Status),
	)

	switch strings.ToLower(strings.TrimSpace(note.Status)) {
	case "paid", "success", "completed":
		_, err = s.Settle(ctx, domain.SettleRequest{
			RequestID:         request.ID,
			ProviderReference: reference,
		})
		return err
	case "failed", "rejected":
		_, err = s.MarkFailed(ctx, request.ID, 0)
		if err == domain.ErrInvalidTransition && request.Status == domain.StatusFailed {
			// provider retried a failure notification
			return nil
		}
		return err
	default:
		return domain.ErrInvalidPayload
	}
}
