package services

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"recovery/internal/entitlement"
	"recovery/pkg/utils"
)

// BillingService is the boundary to the payment provider. Implementations
// return nil status from GetSubscriptionStatus when the customer has no
// subscription.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, email, name string) (string, error)
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
	RetrieveSession(ctx context.Context, sessionID string) (*entitlement.CheckoutSession, error)
	GetSubscriptionStatus(ctx context.Context, customerID string) (*entitlement.BillingStatus, error)
	CancelAtPeriodEnd(ctx context.Context, customerID string) (*entitlement.BillingStatus, error)
}

type StripeBillingConfig struct {
	SecretKey   string
	PriceCents  int64
	Currency    string
	Interval    string
	ProductName string
	AppBaseURL  string
}

type stripeBilling struct {
	cfg StripeBillingConfig
	sc  *client.API
	log *zap.Logger
}

func NewStripeBillingService(cfg StripeBillingConfig, log *zap.Logger) BillingService {
	var sc *client.API
	if cfg.SecretKey != "" {
		sc = &client.API{}
		sc.Init(cfg.SecretKey, nil)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, billing is disabled")
	}
	return &stripeBilling{cfg: cfg, sc: sc, log: log}
}

// checkoutParams builds a monthly subscription checkout that carries the
// account identity in metadata on both the session and the subscription.
func checkoutParams(cfg StripeBillingConfig, email, name string) *stripe.CheckoutSessionParams {
	metadata := map[string]string{
		entitlement.MetadataEmail: email,
		entitlement.MetadataName:  name,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(cfg.ProductName),
						Description: stripe.String("Digital recovery journal with progress tracking and a personal dashboard"),
					},
					UnitAmount: stripe.Int64(cfg.PriceCents),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(cfg.Interval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:               stripe.String(cfg.AppBaseURL + "/subscription/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:                stripe.String(cfg.AppBaseURL + "/subscription/cancel"),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		AutomaticTax: &stripe.CheckoutSessionAutomaticTaxParams{
			Enabled: stripe.Bool(true),
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return params
}

func (s *stripeBilling) CreateCheckoutSession(ctx context.Context, email, name string) (string, error) {
	if s.sc == nil {
		return "", utils.ErrCheckoutUnavailable
	}
	params := checkoutParams(s.cfg, email, name)
	params.Context = ctx

	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		s.log.Error("create checkout session", zap.String("email", email), zap.Error(err))
		return "", fmt.Errorf("%w: %v", utils.ErrCheckoutUnavailable, err)
	}
	return sess.URL, nil
}

func (s *stripeBilling) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	if s.sc == nil {
		return "", utils.ErrPortalUnavailable
	}
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.cfg.AppBaseURL + "/dashboard"),
	}
	params.Context = ctx

	sess, err := s.sc.BillingPortalSessions.New(params)
	if err != nil {
		s.log.Error("create portal session", zap.String("customer", customerID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", utils.ErrPortalUnavailable, err)
	}
	return sess.URL, nil
}

func (s *stripeBilling) RetrieveSession(ctx context.Context, sessionID string) (*entitlement.CheckoutSession, error) {
	if s.sc == nil {
		return nil, utils.ErrPaymentNotConfirmed
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrPaymentNotConfirmed, err)
	}

	out := &entitlement.CheckoutSession{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		Metadata:      sess.Metadata,
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	return out, nil
}

func (s *stripeBilling) latestSubscription(ctx context.Context, customerID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := s.sc.Subscriptions.List(params)
	if iter.Next() {
		return iter.Subscription(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func toBillingStatus(sub *stripe.Subscription) *entitlement.BillingStatus {
	return &entitlement.BillingStatus{
		Status:            string(sub.Status),
		PeriodStart:       sub.CurrentPeriodStart,
		PeriodEnd:         sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
}

func (s *stripeBilling) GetSubscriptionStatus(ctx context.Context, customerID string) (*entitlement.BillingStatus, error) {
	if s.sc == nil {
		return nil, utils.ErrSubscriptionStatus
	}
	sub, err := s.latestSubscription(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSubscriptionStatus, err)
	}
	if sub == nil {
		return nil, nil
	}
	return toBillingStatus(sub), nil
}

func (s *stripeBilling) CancelAtPeriodEnd(ctx context.Context, customerID string) (*entitlement.BillingStatus, error) {
	if s.sc == nil {
		return nil, utils.ErrSubscriptionStatus
	}
	sub, err := s.latestSubscription(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSubscriptionStatus, err)
	}
	if sub == nil {
		return nil, utils.ErrNoBillingIdentity
	}

	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(true)}
	params.Context = ctx
	updated, err := s.sc.Subscriptions.Update(sub.ID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSubscriptionStatus, err)
	}
	return toBillingStatus(updated), nil
}
