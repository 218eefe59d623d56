package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/entitlement"
	"recovery/internal/models/db_models"
	"recovery/internal/repositories"
	"recovery/internal/testutil"
	"recovery/pkg/utils"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []MailMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg MailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeBilling struct {
	sessions    map[string]*entitlement.CheckoutSession
	statuses    map[string]*entitlement.BillingStatus
	statusErrs  map[string]error
	checkoutErr error
	portalErr   error
	checkouts   []string
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{
		sessions:   map[string]*entitlement.CheckoutSession{},
		statuses:   map[string]*entitlement.BillingStatus{},
		statusErrs: map[string]error{},
	}
}

func (f *fakeBilling) CreateCheckoutSession(_ context.Context, email, _ string) (string, error) {
	if f.checkoutErr != nil {
		return "", f.checkoutErr
	}
	f.checkouts = append(f.checkouts, email)
	return "https://checkout.example/" + email, nil
}

func (f *fakeBilling) CreatePortalSession(_ context.Context, customerID string) (string, error) {
	if f.portalErr != nil {
		return "", f.portalErr
	}
	return "https://portal.example/" + customerID, nil
}

func (f *fakeBilling) RetrieveSession(_ context.Context, sessionID string) (*entitlement.CheckoutSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such session")
	}
	return s, nil
}

func (f *fakeBilling) GetSubscriptionStatus(_ context.Context, customerID string) (*entitlement.BillingStatus, error) {
	if err := f.statusErrs[customerID]; err != nil {
		return nil, err
	}
	return f.statuses[customerID], nil
}

func (f *fakeBilling) CancelAtPeriodEnd(_ context.Context, customerID string) (*entitlement.BillingStatus, error) {
	st, ok := f.statuses[customerID]
	if !ok || st == nil {
		return nil, utils.ErrNoBillingIdentity
	}
	st.CancelAtPeriodEnd = true
	return st, nil
}

type fixture struct {
	db       *gorm.DB
	accounts repositories.AccountRepository
	sender   *fakeSender
	billing  *fakeBilling
	mail     IMailService
	log      *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	sender := &fakeSender{}
	log := zap.NewNop()
	return &fixture{
		db:       db,
		accounts: repositories.NewAccountRepository(db),
		sender:   sender,
		billing:  newFakeBilling(),
		mail:     NewMailService(MailServiceConfig{AppName: "Test", AppBaseURL: "http://test", DownloadsDir: t.TempDir()}, sender, log),
		log:      log,
	}
}

func (f *fixture) journal() *JournalService {
	return NewJournalService(f.db, f.accounts, repositories.NewJournalRepository(f.db), repositories.NewAnnotationRepository(f.db), f.log)
}

func (f *fixture) subscriptions() *SubscriptionService {
	return NewSubscriptionService(f.db, f.accounts, f.billing, f.mail, f.log)
}

func (f *fixture) community() *CommunityService {
	return NewCommunityService(f.db, repositories.NewSubscriberRepository(f.db), repositories.NewContactRepository(f.db), f.accounts, f.mail, f.log)
}

// seed inserts an account directly, bypassing registration.
func (f *fixture) seed(t *testing.T, email string, role entitlement.Role, status entitlement.Status) *db_models.Account {
	t.Helper()
	acc := &db_models.Account{
		Name:               "Seeded",
		Email:              email,
		PasswordHash:       "x",
		Role:               role,
		SubscriptionStatus: status,
		CurrentDay:         1,
	}
	require.NoError(t, f.accounts.Insert(context.Background(), acc))
	return acc
}

func (f *fixture) reload(t *testing.T, acc *db_models.Account) *db_models.Account {
	t.Helper()
	got, err := f.accounts.FindById(context.Background(), acc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	return got
}

func ptr[T any](v T) *T {
	return &v
}
