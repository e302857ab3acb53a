// Package payment integrates with the payment provider. The shipped processor
// is a mock that approves every request after an artificial delay.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/model"
)

var _ model.PaymentProcessor = (*MockProcessor)(nil)

// MockProcessor simulates a payment provider round trip. Every request
// succeeds with a generated reference.
type MockProcessor struct {
	delay time.Duration
}

func NewMockProcessor(delay time.Duration) *MockProcessor {
	return &MockProcessor{
		delay: delay,
	}
}

func (p *MockProcessor) Process(ctx context.Context, req model.PaymentRequest) (model.PaymentResult, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return model.PaymentResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	return model.PaymentResult{
		Reference: fmt.Sprintf("mock-%s", uuid.NewString()),
		Status:    model.PaymentStatusCompleted,
	}, nil
}
