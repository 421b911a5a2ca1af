package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/config"
	"datarw/internal/events"
	"datarw/internal/model"
)

func newPaymentFixture() (*PaymentService, *OrgService, *model.Organization) {
	cfg := config.New()
	log := zerolog.Nop()

	orgRepo := newFakeOrgRepo()
	orgs := NewOrgService(cfg, orgRepo, newFakeUserRepo(), newFakeProjectRepo(), newFakeSurveyRepo())

	org, _ := orgRepo.Create(context.Background(), &model.Organization{
		Name:    "Acme",
		OwnerID: primitive.NewObjectID(),
		Plan:    model.PlanBasic,
	})

	svc := NewPaymentService(cfg, newFakePaymentRepo(), orgs, &stubGateway{}, events.NewHub(log), log)
	return svc, orgs, org
}

func TestCheckoutCreatesPendingTransaction(t *testing.T) {
	svc, _, org := newPaymentFixture()
	ctx := context.Background()

	tx, err := svc.Checkout(ctx, org.ID, primitive.NewObjectID(), model.PlanPro)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPending, tx.Status)
	assert.Equal(t, 29.0, tx.Amount)
	assert.NotEmpty(t, tx.GatewayRef)
	assert.Equal(t, model.PlanPro, tx.Plan)
}

func TestCheckoutRejectsInvalidPlans(t *testing.T) {
	svc, orgs, org := newPaymentFixture()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	_, err := svc.Checkout(ctx, org.ID, actor, model.Plan("gold"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Checkout(ctx, org.ID, actor, model.PlanBasic)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, orgs.ApplyPlan(ctx, org.ID, model.PlanPro))
	_, err = svc.Checkout(ctx, org.ID, actor, model.PlanPro)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWebhookCompletedAppliesPlan(t *testing.T) {
	svc, orgs, org := newPaymentFixture()
	ctx := context.Background()

	tx, err := svc.Checkout(ctx, org.ID, primitive.NewObjectID(), model.PlanPro)
	require.NoError(t, err)

	settled, err := svc.HandleWebhook(ctx, &model.WebhookPayload{
		GatewayRef: tx.GatewayRef,
		Status:     model.PaymentCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, settled.Status)
	require.NotNil(t, settled.SettledAt)

	upgraded, err := orgs.Get(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, upgraded.Plan)
	assert.Equal(t, "active", upgraded.Subscription.Status)
	assert.True(t, upgraded.Subscription.RenewsAt.After(upgraded.Subscription.StartedAt))
}

func TestWebhookFailedKeepsPlan(t *testing.T) {
	svc, orgs, org := newPaymentFixture()
	ctx := context.Background()

	tx, err := svc.Checkout(ctx, org.ID, primitive.NewObjectID(), model.PlanEnterprise)
	require.NoError(t, err)

	settled, err := svc.HandleWebhook(ctx, &model.WebhookPayload{
		GatewayRef:    tx.GatewayRef,
		Status:        model.PaymentFailed,
		FailureReason: "card_declined",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, settled.Status)
	assert.Equal(t, "card_declined", settled.FailureReason)

	unchanged, err := orgs.Get(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanBasic, unchanged.Plan)
}

func TestWebhookIsIdempotent(t *testing.T) {
	svc, _, org := newPaymentFixture()
	ctx := context.Background()

	tx, err := svc.Checkout(ctx, org.ID, primitive.NewObjectID(), model.PlanPro)
	require.NoError(t, err)

	payload := &model.WebhookPayload{GatewayRef: tx.GatewayRef, Status: model.PaymentCompleted}
	first, err := svc.HandleWebhook(ctx, payload)
	require.NoError(t, err)
	firstSettled := *first.SettledAt

	// Replay with a contradicting status; the settlement must not change
	replay, err := svc.HandleWebhook(ctx, &model.WebhookPayload{
		GatewayRef:    tx.GatewayRef,
		Status:        model.PaymentFailed,
		FailureReason: "late replay",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, replay.Status)
	assert.Equal(t, firstSettled, *replay.SettledAt)
	assert.Empty(t, replay.FailureReason)
}

func TestWebhookUnknownRef(t *testing.T) {
	svc, _, _ := newPaymentFixture()

	_, err := svc.HandleWebhook(context.Background(), &model.WebhookPayload{
		GatewayRef: "mock_never_seen",
		Status:     model.PaymentCompleted,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentGetScopedToOrg(t *testing.T) {
	svc, _, org := newPaymentFixture()
	ctx := context.Background()

	tx, err := svc.Checkout(ctx, org.ID, primitive.NewObjectID(), model.PlanPro)
	require.NoError(t, err)

	_, err = svc.Get(ctx, primitive.NewObjectID(), tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := svc.Get(ctx, org.ID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, found.ID)
}
