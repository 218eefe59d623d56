package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recovery/internal/entitlement"
	"recovery/pkg/utils"
)

func TestCheckoutParams(t *testing.T) {
	cfg := StripeBillingConfig{
		PriceCents:  1999,
		Currency:    "usd",
		Interval:    "month",
		ProductName: "Journal",
		AppBaseURL:  "https://site",
	}
	p := checkoutParams(cfg, "a@x.com", "Ann")

	assert.Equal(t, "subscription", *p.Mode)
	assert.Equal(t, "a@x.com", *p.CustomerEmail)
	require.Len(t, p.LineItems, 1)
	price := p.LineItems[0].PriceData
	assert.Equal(t, int64(1999), *price.UnitAmount)
	assert.Equal(t, "usd", *price.Currency)
	assert.Equal(t, "month", *price.Recurring.Interval)
	assert.Equal(t, "https://site/subscription/success?session_id={CHECKOUT_SESSION_ID}", *p.SuccessURL)
	assert.Equal(t, "https://site/subscription/cancel", *p.CancelURL)
	assert.Equal(t, "required", *p.BillingAddressCollection)
	assert.True(t, *p.AutomaticTax.Enabled)
	assert.Equal(t, "a@x.com", p.Metadata[entitlement.MetadataEmail])
	assert.Equal(t, "Ann", p.SubscriptionData.Metadata[entitlement.MetadataName])
}

func TestStripeBilling_DisabledWithoutKey(t *testing.T) {
	b := NewStripeBillingService(StripeBillingConfig{}, zap.NewNop())
	ctx := context.Background()

	_, err := b.CreateCheckoutSession(ctx, "a@x.com", "Ann")
	assert.ErrorIs(t, err, utils.ErrCheckoutUnavailable)
	_, err = b.CreatePortalSession(ctx, "cus")
	assert.ErrorIs(t, err, utils.ErrPortalUnavailable)
	_, err = b.RetrieveSession(ctx, "cs")
	assert.ErrorIs(t, err, utils.ErrPaymentNotConfirmed)
	_, err = b.GetSubscriptionStatus(ctx, "cus")
	assert.ErrorIs(t, err, utils.ErrSubscriptionStatus)
}
