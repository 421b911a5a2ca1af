package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/config"
	"datarw/internal/events"
	"datarw/internal/model"
	"datarw/internal/payment"
	"datarw/internal/repository"
)

// PaymentService drives subscription checkouts through the (mock) gateway
// and applies plan changes on settlement.
type PaymentService struct {
	repo    repository.IPaymentRepository
	orgs    *OrgService
	gateway payment.Gateway
	hub     *events.Hub
	log     zerolog.Logger
	cfg     *config.Config
}

// NewPaymentService creates a new payment service and wires itself as the
// gateway's webhook target.
func NewPaymentService(cfg *config.Config, repo repository.IPaymentRepository, orgs *OrgService, gw payment.Gateway, hub *events.Hub, log zerolog.Logger) *PaymentService {
	s := &PaymentService{
		repo: repo, orgs: orgs, gateway: gw, hub: hub,
		log: log.With().Str("component", "payment").Logger(),
		cfg: cfg,
	}
	gw.SetWebhookHandler(s.deliverWebhook)
	return s
}

// Checkout starts a plan upgrade. The transaction is stored pending and the
// gateway settles it asynchronously via webhook.
func (s *PaymentService) Checkout(ctx context.Context, orgID, actorID primitive.ObjectID, plan model.Plan) (*model.PaymentTransaction, error) {
	if !plan.IsValid() {
		return nil, fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, plan)
	}
	if plan == model.PlanBasic {
		return nil, fmt.Errorf("%w: basic plan does not require checkout", ErrInvalidInput)
	}

	org, err := s.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.Plan == plan {
		return nil, fmt.Errorf("%w: org is already on plan %s", ErrInvalidInput, plan)
	}

	amount := plan.Spec().MonthlyPrice
	ref := s.gateway.CreateCheckout(amount, s.cfg.Payment.Currency)

	tx := &model.PaymentTransaction{
		OrgID:       orgID,
		Plan:        plan,
		Amount:      amount,
		Currency:    s.cfg.Payment.Currency,
		Status:      model.PaymentPending,
		GatewayRef:  ref,
		InitiatedBy: actorID,
	}
	created, err := s.repo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	s.log.Info().Str("gatewayRef", ref).Str("plan", string(plan)).Str("org", orgID.Hex()).Msg("checkout started")
	return created, nil
}

// HandleWebhook processes a gateway settlement callback. Idempotent: a
// transaction that already left pending is not touched again.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload *model.WebhookPayload) (*model.PaymentTransaction, error) {
	if payload.Status != model.PaymentCompleted && payload.Status != model.PaymentFailed {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, payload.Status)
	}

	tx, err := s.repo.FindByGatewayRef(ctx, payload.GatewayRef)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	if tx.Status != model.PaymentPending {
		// Replayed webhook; settlement already applied
		return tx, nil
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":    payload.Status,
		"settledAt": now,
	}
	if payload.Status == model.PaymentFailed {
		fields["failureReason"] = payload.FailureReason
	}
	if err := s.repo.UpdateFields(ctx, tx.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to settle transaction: %w", err)
	}
	tx.Status = payload.Status
	tx.FailureReason = payload.FailureReason
	tx.SettledAt = &now

	if payload.Status == model.PaymentCompleted {
		if err := s.orgs.ApplyPlan(ctx, tx.OrgID, tx.Plan); err != nil {
			return nil, fmt.Errorf("failed to apply plan: %w", err)
		}
		s.hub.Publish(tx.OrgID, events.PaymentCompleted, map[string]string{
			"transactionId": tx.ID.Hex(),
			"plan":          string(tx.Plan),
		})
	} else {
		s.hub.Publish(tx.OrgID, events.PaymentFailed, map[string]string{
			"transactionId": tx.ID.Hex(),
			"reason":        tx.FailureReason,
		})
	}

	s.log.Info().Str("gatewayRef", payload.GatewayRef).Str("status", payload.Status).Msg("webhook settled")
	return tx, nil
}

// deliverWebhook adapts the gateway callback to HandleWebhook. Runs on the
// simulator's goroutine, so it owns its own context.
func (s *PaymentService) deliverWebhook(payload model.WebhookPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.HandleWebhook(ctx, &payload); err != nil {
		s.log.Error().Err(err).Str("gatewayRef", payload.GatewayRef).Msg("webhook processing failed")
	}
}

// ListByOrg returns an organization's transactions, newest first
func (s *PaymentService) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.PaymentTransaction, error) {
	return s.repo.FindByOrg(ctx, orgID)
}

// Get returns one transaction scoped to the caller's organization
func (s *PaymentService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*model.PaymentTransaction, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if tx == nil || tx.OrgID != orgID {
		return nil, ErrNotFound
	}
	return tx, nil
}
