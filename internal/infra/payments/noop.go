package payments

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
)

// Noop accepts any non-empty reference. Used in development and tests.
type Noop struct{}

func (Noop) Name() string { return "none" }

func (Noop) Verify(_ context.Context, reference string, _ int64) error {
	if strings.TrimSpace(reference) == "" {
		return httperr.ErrPayment("Missing payment reference.")
	}
	return nil
}

func (Noop) Refund(_ context.Context, reference string, amountCents int64) (*RefundResult, error) {
	return &RefundResult{ID: "noop-" + reference, AmountCents: amountCents, Status: "approved"}, nil
}
