package payments

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
)

// Gateway is the payment collaborator. Verify confirms a captured payment
// covers the expected amount; Refund moves money back. Both report
// collaborator failures as payment errors carrying the provider's message.
type Gateway interface {
	Name() string
	Verify(ctx context.Context, reference string, expectedCents int64) error
	Refund(ctx context.Context, reference string, amountCents int64) (*RefundResult, error)
}

type RefundResult struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
}

// New picks the gateway named by PAYMENT_PROVIDER.
func New(cfg *config.Config, log *zap.Logger) (Gateway, error) {
	switch cfg.PaymentProvider {
	case "mercadopago":
		return NewMercadoPago(cfg.MercadoPagoAccessToken)
	case "stripe":
		return NewStripe(cfg.StripeSecretKey)
	case "", "none":
		log.Warn("payment provider disabled, accepting every payment reference")
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.PaymentProvider)
	}
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}
