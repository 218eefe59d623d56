// Package entitlement holds the subscription state machine that decides
// whether an account may use the journal. Every transition is a plain
// function from the prior state to the next one plus the side effects the
// caller must perform, so nothing here touches a database or a network.
package entitlement

import (
	"strings"
	"time"

	"recovery/pkg/utils"
)

type Role string

const (
	RoleSubscriber Role = "subscriber"
	RoleOwner      Role = "owner"
)

type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

// Metadata keys attached to checkout sessions for reconciliation.
const (
	MetadataEmail = "user_email"
	MetadataName  = "user_name"
)

// PaymentStatusPaid is the only checkout payment status that grants access.
const PaymentStatusPaid = "paid"

type State struct {
	Role              Role
	Status            Status
	BillingCustomerID string
	PeriodStart       *int64
	PeriodEnd         *int64
}

// HasActiveSubscription is the single gate for every journal operation.
func (s State) HasActiveSubscription() bool {
	return s.Role == RoleOwner || s.Status == StatusActive
}

type EffectKind int

const (
	EffectPersist EffectKind = iota + 1
	EffectNotifyRegistered
	EffectNotifySubscribed
)

type Effect struct {
	Kind EffectKind
}

type Transition struct {
	Next    State
	Effects []Effect
}

// HasEffect reports whether the transition asks for the given side effect.
func (t Transition) HasEffect(kind EffectKind) bool {
	for _, e := range t.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Register produces the state of a freshly created account.
func Register(alreadyExists bool) (Transition, error) {
	if alreadyExists {
		return Transition{}, utils.ErrDuplicateIdentity
	}
	return Transition{
		Next: State{Role: RoleSubscriber, Status: StatusInactive},
		Effects: []Effect{
			{Kind: EffectPersist},
			{Kind: EffectNotifyRegistered},
		},
	}, nil
}

// CheckoutSession is what the billing provider reports for a redirect.
type CheckoutSession struct {
	ID            string
	PaymentStatus string
	CustomerID    string
	Metadata      map[string]string
}

// ReconciliationEmail returns the account email carried by a paid session.
// Client supplied identity is never consulted.
func ReconciliationEmail(session CheckoutSession) (string, error) {
	if session.PaymentStatus != PaymentStatusPaid {
		return "", utils.ErrPaymentNotConfirmed
	}
	email := strings.TrimSpace(session.Metadata[MetadataEmail])
	if email == "" {
		return "", utils.ErrPaymentNotConfirmed
	}
	return email, nil
}

// ConfirmPayment activates prior when session is paid and carries
// reconciliation metadata. A nil prior means the email did not resolve.
func ConfirmPayment(prior *State, session CheckoutSession, now time.Time) (Transition, error) {
	if _, err := ReconciliationEmail(session); err != nil {
		return Transition{}, err
	}
	if prior == nil {
		return Transition{}, utils.ErrPaymentNotConfirmed
	}

	next := *prior
	next.Status = StatusActive
	if session.CustomerID != "" {
		next.BillingCustomerID = session.CustomerID
	}
	start := now.Unix()
	next.PeriodStart = &start

	effects := []Effect{{Kind: EffectPersist}}
	if prior.Status != StatusActive {
		effects = append(effects, Effect{Kind: EffectNotifySubscribed})
	}
	return Transition{Next: next, Effects: effects}, nil
}

// PortalCustomer returns the customer the self-service portal should open for.
func PortalCustomer(s State) (string, error) {
	if strings.TrimSpace(s.BillingCustomerID) == "" {
		return "", utils.ErrNoBillingIdentity
	}
	return s.BillingCustomerID, nil
}

// BillingStatus is the provider's view of the latest subscription.
type BillingStatus struct {
	Status            string
	PeriodStart       int64
	PeriodEnd         int64
	CancelAtPeriodEnd bool
}

// StatusFromProvider maps provider subscription states onto ours.
func StatusFromProvider(s string) Status {
	switch s {
	case "active", "trialing":
		return StatusActive
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled", "incomplete_expired":
		return StatusCanceled
	default:
		return StatusInactive
	}
}

// ApplyBillingStatus reconciles prior with the provider. A nil status means
// the customer has no subscription at all.
func ApplyBillingStatus(prior State, status *BillingStatus) Transition {
	next := prior
	if status == nil {
		if prior.Status == StatusActive || prior.Status == StatusPastDue {
			next.Status = StatusCanceled
		}
	} else {
		next.Status = StatusFromProvider(status.Status)
		start, end := status.PeriodStart, status.PeriodEnd
		if start > 0 {
			next.PeriodStart = &start
		}
		if end > 0 {
			next.PeriodEnd = &end
		}
	}

	if next.Status == prior.Status && sameInt64(next.PeriodStart, prior.PeriodStart) && sameInt64(next.PeriodEnd, prior.PeriodEnd) {
		return Transition{Next: next}
	}
	return Transition{Next: next, Effects: []Effect{{Kind: EffectPersist}}}
}

func sameInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
