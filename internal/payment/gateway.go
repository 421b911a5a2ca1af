// Package payment implements the mocked billing gateway. Checkouts settle
// asynchronously: each one gets a goroutine that sleeps a random delay and
// then delivers a success-or-failure webhook, imitating a real provider's
// callback flow without live credentials.
package payment

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"datarw/internal/config"
	"datarw/internal/model"
)

// WebhookFunc receives the gateway's settlement callback
type WebhookFunc func(payload model.WebhookPayload)

// Gateway simulates a third-party billing provider
type Gateway interface {
	CreateCheckout(amount float64, currency string) (gatewayRef string)
	SetWebhookHandler(fn WebhookFunc)
}

// MockGateway is the simulator used in place of live credentials
type MockGateway struct {
	cfg *config.Config
	log zerolog.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	webhook WebhookFunc
}

// NewMockGateway creates a simulator seeded from the clock
func NewMockGateway(cfg *config.Config, log zerolog.Logger) *MockGateway {
	return &MockGateway{
		cfg: cfg,
		log: log.With().Str("component", "mock-gateway").Logger(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetWebhookHandler wires the settlement callback. Must be called before
// the first checkout.
func (g *MockGateway) SetWebhookHandler(fn WebhookFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.webhook = fn
}

// CreateCheckout registers a pending payment and schedules its settlement
func (g *MockGateway) CreateCheckout(amount float64, currency string) string {
	ref := "mock_" + uuid.NewString()

	g.mu.Lock()
	delay := g.randomDelayLocked()
	succeed := g.rng.Float64() < g.cfg.Payment.SuccessRate
	g.mu.Unlock()

	g.log.Info().
		Str("gatewayRef", ref).
		Float64("amount", amount).
		Str("currency", currency).
		Dur("settleAfter", delay).
		Msg("checkout created")

	go g.settle(ref, succeed, delay)
	return ref
}

func (g *MockGateway) randomDelayLocked() time.Duration {
	minMs := g.cfg.Payment.MinDelayMs
	maxMs := g.cfg.Payment.MaxDelayMs
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	ms := minMs + g.rng.Intn(maxMs-minMs)
	return time.Duration(ms) * time.Millisecond
}

func (g *MockGateway) settle(ref string, succeed bool, delay time.Duration) {
	time.Sleep(delay)

	payload := model.WebhookPayload{GatewayRef: ref, Status: model.PaymentCompleted}
	if !succeed {
		payload.Status = model.PaymentFailed
		payload.FailureReason = "card_declined"
	}

	g.mu.Lock()
	fn := g.webhook
	g.mu.Unlock()

	if fn == nil {
		g.log.Error().Str("gatewayRef", ref).Msg("no webhook handler wired, dropping settlement")
		return
	}

	g.log.Info().Str("gatewayRef", ref).Str("status", payload.Status).Msg("delivering webhook")
	fn(payload)
}
