package db_models

import (
	"gorm.io/datatypes"

	"recovery/internal/entitlement"
)

type Account struct {
	BaseModel
	Name         string `gorm:"size:100"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string
	Role         entitlement.Role `gorm:"size:20;not null;default:'subscriber'"`

	BillingCustomerID  *string            `gorm:"size:100;index"`
	SubscriptionStatus entitlement.Status `gorm:"size:20;not null;default:'inactive';index"`
	SubscriptionStart  *int64
	SubscriptionEnd    *int64
	CancelAtPeriodEnd  bool
	// last provider payload seen by the status sync
	BillingSnapshot datatypes.JSON `gorm:"type:jsonb"`

	CurrentDay    int `gorm:"not null;default:1"`
	DaysCompleted int `gorm:"not null;default:0"`
	LastActivity  *int64
}

func (a *Account) EntitlementState() entitlement.State {
	s := entitlement.State{
		Role:        a.Role,
		Status:      a.SubscriptionStatus,
		PeriodStart: a.SubscriptionStart,
		PeriodEnd:   a.SubscriptionEnd,
	}
	if a.BillingCustomerID != nil {
		s.BillingCustomerID = *a.BillingCustomerID
	}
	return s
}

// ApplyEntitlement copies a transition result back onto the row. Role is
// not writable through the state machine.
func (a *Account) ApplyEntitlement(s entitlement.State) {
	a.SubscriptionStatus = s.Status
	a.SubscriptionStart = s.PeriodStart
	a.SubscriptionEnd = s.PeriodEnd
	if s.BillingCustomerID != "" {
		id := s.BillingCustomerID
		a.BillingCustomerID = &id
	}
}

func (a *Account) HasActiveSubscription() bool {
	return a.EntitlementState().HasActiveSubscription()
}

func (a *Account) IsOwner() bool {
	return a.Role == entitlement.RoleOwner
}
