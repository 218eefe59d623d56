package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recovery/internal/entitlement"
	"recovery/internal/models/db_models"
	"recovery/internal/models/request_models"
	"recovery/internal/progress"
	"recovery/internal/repositories"
	"recovery/pkg/utils"
)

func paidSession(id, email, customer string) *entitlement.CheckoutSession {
	return &entitlement.CheckoutSession{
		ID:            id,
		PaymentStatus: entitlement.PaymentStatusPaid,
		CustomerID:    customer,
		Metadata:      map[string]string{entitlement.MetadataEmail: email, entitlement.MetadataName: "A"},
	}
}

func TestSubscriptionLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accounts := newAccountService(f)
	subs := f.subscriptions()
	journal := f.journal()

	acc, err := accounts.Register(ctx, request_models.SignUpRequest{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusInactive, f.reload(t, acc).SubscriptionStatus)

	url, err := subs.InitiateCheckout(ctx, acc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, []string{"a@x.com"}, f.billing.checkouts)

	f.billing.sessions["cs_1"] = paidSession("cs_1", "a@x.com", "cus_1")
	confirmed, err := subs.ConfirmPayment(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, confirmed.ID)

	got := f.reload(t, acc)
	assert.Equal(t, entitlement.StatusActive, got.SubscriptionStatus)
	require.NotNil(t, got.BillingCustomerID)
	assert.Equal(t, "cus_1", *got.BillingCustomerID)
	assert.NotNil(t, got.SubscriptionStart)

	dash, err := journal.Dashboard(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, dash.Entries, progress.TotalDays)
	for i, e := range dash.Entries {
		assert.Equal(t, i+1, e.DayNumber)
	}

	input := progress.EntryInput{
		DailyReflection: "calm",
		GratitudeList:   "family",
		Challenges:      "cravings",
		Wins:            "walked",
		Goals:           "call sponsor",
		MoodRating:      ptr(7),
		EnergyRating:    ptr(6),
	}
	res, err := journal.SaveEntry(ctx, acc.ID, 1, input)
	require.NoError(t, err)
	assert.Equal(t, 70, res.Percentage)
	assert.True(t, res.Entry.Completed)
	assert.Equal(t, 2, f.reload(t, acc).CurrentDay)
	assert.Equal(t, 1, f.reload(t, acc).DaysCompleted)

	_, err = journal.SaveEntry(ctx, acc.ID, 1, input)
	require.NoError(t, err)
	assert.Equal(t, 2, f.reload(t, acc).CurrentDay)
}

func TestConfirmPayment_LeavesStatusUnchangedOnFailure(t *testing.T) {
	cases := map[string]*entitlement.CheckoutSession{
		"unpaid": {
			ID:            "cs",
			PaymentStatus: "unpaid",
			CustomerID:    "cus",
			Metadata:      map[string]string{entitlement.MetadataEmail: "a@x.com"},
		},
		"missing metadata": {
			ID:            "cs",
			PaymentStatus: entitlement.PaymentStatusPaid,
			CustomerID:    "cus",
		},
		"unknown email": paidSession("cs", "ghost@x.com", "cus"),
	}

	for name, session := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			acc := f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)
			f.billing.sessions["cs"] = session

			_, err := f.subscriptions().ConfirmPayment(context.Background(), "cs")
			assert.ErrorIs(t, err, utils.ErrPaymentNotConfirmed)

			got := f.reload(t, acc)
			assert.Equal(t, entitlement.StatusInactive, got.SubscriptionStatus)
			assert.Nil(t, got.BillingCustomerID)
			assert.Zero(t, f.sender.count())
		})
	}
}

func TestConfirmPayment_RetrieveFailure(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)

	_, err := f.subscriptions().ConfirmPayment(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, utils.ErrPaymentNotConfirmed)

	_, err = f.subscriptions().ConfirmPayment(context.Background(), "")
	assert.ErrorIs(t, err, utils.ErrPaymentNotConfirmed)
}

func TestConfirmPayment_NotificationFailureKeepsActivation(t *testing.T) {
	f := newFixture(t)
	acc := f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)
	f.sender.err = errors.New("provider down")
	f.billing.sessions["cs"] = paidSession("cs", "a@x.com", "cus")

	_, err := f.subscriptions().ConfirmPayment(context.Background(), "cs")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, f.reload(t, acc).SubscriptionStatus)
}

func TestConfirmPayment_RepeatDoesNotResendEmail(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)
	f.billing.sessions["cs"] = paidSession("cs", "a@x.com", "cus")
	subs := f.subscriptions()

	_, err := subs.ConfirmPayment(context.Background(), "cs")
	require.NoError(t, err)
	_, err = subs.ConfirmPayment(context.Background(), "cs")
	require.NoError(t, err)
	assert.Equal(t, 1, f.sender.count())
}

func TestInitiateCheckout_Unavailable(t *testing.T) {
	f := newFixture(t)
	acc := f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)
	f.billing.checkoutErr = errors.New("stripe down")

	_, err := f.subscriptions().InitiateCheckout(context.Background(), acc.ID)
	assert.ErrorIs(t, err, utils.ErrCheckoutUnavailable)
	assert.Equal(t, entitlement.StatusInactive, f.reload(t, acc).SubscriptionStatus)
}

func TestManageURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	subs := f.subscriptions()
	acc := f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)

	_, err := subs.ManageURL(ctx, acc.ID)
	assert.ErrorIs(t, err, utils.ErrNoBillingIdentity)

	f.billing.sessions["cs"] = paidSession("cs", "a@x.com", "cus_9")
	_, err = subs.ConfirmPayment(ctx, "cs")
	require.NoError(t, err)

	url, err := subs.ManageURL(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example/cus_9", url)

	f.billing.portalErr = errors.New("boom")
	_, err = subs.ManageURL(ctx, acc.ID)
	assert.ErrorIs(t, err, utils.ErrPortalUnavailable)
}

func TestSyncStatusAndCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	subs := f.subscriptions()
	acc := f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)
	f.billing.sessions["cs"] = paidSession("cs", "a@x.com", "cus_1")
	_, err := subs.ConfirmPayment(ctx, "cs")
	require.NoError(t, err)

	end := time.Now().Add(30 * 24 * time.Hour).Unix()
	f.billing.statuses["cus_1"] = &entitlement.BillingStatus{Status: "past_due", PeriodStart: 100, PeriodEnd: end}

	got, err := subs.SyncStatus(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusPastDue, got.SubscriptionStatus)
	assert.False(t, f.reload(t, acc).HasActiveSubscription())
	assert.NotEmpty(t, f.reload(t, acc).BillingSnapshot)

	f.billing.statuses["cus_1"].Status = "active"
	got, err = subs.CancelAtPeriodEnd(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.CancelAtPeriodEnd)
	assert.Equal(t, entitlement.StatusActive, got.SubscriptionStatus)
	assert.True(t, f.reload(t, acc).CancelAtPeriodEnd)
}

func TestSyncStatus_OwnerKeepsAccessWhenCanceled(t *testing.T) {
	f := newFixture(t)
	owner := f.seed(t, "o@x.com", entitlement.RoleOwner, entitlement.StatusActive)
	cus := "cus_o"
	owner.BillingCustomerID = &cus
	require.NoError(t, f.accounts.UpdateEntitlement(context.Background(), owner))

	got, err := f.subscriptions().SyncStatus(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusCanceled, got.SubscriptionStatus)
	assert.Equal(t, entitlement.RoleOwner, got.Role)
	assert.True(t, got.HasActiveSubscription())
}

func TestSyncAll_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []struct{ email, customer string }{{"a@x.com", "cus_a"}, {"b@x.com", "cus_b"}, {"c@x.com", "cus_c"}} {
		acc := f.seed(t, c.email, entitlement.RoleSubscriber, entitlement.StatusActive)
		cus := c.customer
		acc.BillingCustomerID = &cus
		require.NoError(t, f.accounts.UpdateEntitlement(ctx, acc))
	}
	f.seed(t, "nobilling@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)

	f.billing.statusErrs["cus_a"] = errors.New("timeout")
	f.billing.statuses["cus_b"] = &entitlement.BillingStatus{Status: "canceled"}
	f.billing.statuses["cus_c"] = &entitlement.BillingStatus{Status: "active", PeriodStart: 1, PeriodEnd: 2}

	report, err := f.subscriptions().SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Changed)

	b, err := f.accounts.FindByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusCanceled, b.SubscriptionStatus)

	a, err := f.accounts.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, a.SubscriptionStatus)
}

type countingAccounts struct {
	repositories.AccountRepository
	updates *int
}

func (c countingAccounts) WithTx(tx *gorm.DB) repositories.AccountRepository {
	return countingAccounts{AccountRepository: c.AccountRepository.WithTx(tx), updates: c.updates}
}

func (c countingAccounts) UpdateEntitlement(ctx context.Context, account *db_models.Account) error {
	*c.updates++
	return c.AccountRepository.UpdateEntitlement(ctx, account)
}

func TestSyncStatus_UnchangedWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.seed(t, "a@x.com", entitlement.RoleSubscriber, entitlement.StatusInactive)
	cus := "cus_1"
	acc.BillingCustomerID = &cus
	require.NoError(t, f.accounts.UpdateEntitlement(ctx, acc))

	var updates int
	subs := NewSubscriptionService(f.db, countingAccounts{AccountRepository: f.accounts, updates: &updates}, f.billing, f.mail, f.log)
	f.billing.statuses["cus_1"] = &entitlement.BillingStatus{Status: "active", PeriodStart: 100, PeriodEnd: 200}

	got, err := subs.SyncStatus(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, got.SubscriptionStatus)
	assert.Equal(t, 1, updates)

	got, err = subs.SyncStatus(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusActive, got.SubscriptionStatus)
	assert.Equal(t, 1, updates)

	f.billing.statuses["cus_1"].CancelAtPeriodEnd = true
	got, err = subs.SyncStatus(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.CancelAtPeriodEnd)
	assert.Equal(t, 2, updates)
}
