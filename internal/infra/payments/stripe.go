package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
)

// Stripe treats the payment reference as a PaymentIntent id.
type Stripe struct{}

func NewStripe(secretKey string) (*Stripe, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe: missing secret key")
	}
	stripe.Key = secretKey
	return &Stripe{}, nil
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Verify(ctx context.Context, reference string, expectedCents int64) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(reference, params)
	if err != nil {
		return httperr.ErrPayment(stripeMessage(err))
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return httperr.ErrPayment(fmt.Sprintf("Payment is %s.", pi.Status))
	}
	if pi.AmountReceived < expectedCents {
		return httperr.ErrPayment("Payment amount does not cover the reservation total.")
	}
	return nil
}

func (s *Stripe) Refund(ctx context.Context, reference string, amountCents int64) (*RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(reference),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return nil, httperr.ErrPayment(stripeMessage(err))
	}

	return &RefundResult{ID: r.ID, AmountCents: r.Amount, Status: string(r.Status)}, nil
}

func stripeMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}
