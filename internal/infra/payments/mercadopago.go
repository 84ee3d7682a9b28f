package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
)

type MercadoPago struct {
	payments payment.Client
	refunds  refund.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("mercadopago: missing access token")
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		payments: payment.NewClient(cfg),
		refunds:  refund.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) Name() string { return "mercadopago" }

func (m *MercadoPago) Verify(ctx context.Context, reference string, expectedCents int64) error {
	id, err := strconv.Atoi(reference)
	if err != nil {
		return httperr.ErrPayment("Invalid payment reference.")
	}

	p, err := m.payments.Get(ctx, id)
	if err != nil {
		return httperr.ErrPayment(err.Error())
	}

	if p.Status != "approved" {
		return httperr.ErrPayment(fmt.Sprintf("Payment is %s (%s).", p.Status, p.StatusDetail))
	}
	if toCents(p.TransactionAmount) < expectedCents {
		return httperr.ErrPayment("Payment amount does not cover the reservation total.")
	}
	return nil
}

func (m *MercadoPago) Refund(ctx context.Context, reference string, amountCents int64) (*RefundResult, error) {
	id, err := strconv.Atoi(reference)
	if err != nil {
		return nil, httperr.ErrPayment("Invalid payment reference.")
	}

	r, err := m.refunds.CreatePartialRefund(ctx, id, fromCents(amountCents))
	if err != nil {
		return nil, httperr.ErrPayment(err.Error())
	}

	return &RefundResult{
		ID:          strconv.Itoa(r.ID),
		AmountCents: toCents(r.Amount),
		Status:      r.Status,
	}, nil
}
