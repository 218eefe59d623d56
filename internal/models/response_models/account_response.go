package response_models

import (
	"recovery/internal/models/db_models"
	"recovery/internal/progress"
)

type LoginResponse struct {
	Token                 string `json:"token"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
}

type ProfileResponse struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	Role                  string  `json:"role"`
	SubscriptionStatus    string  `json:"subscription_status"`
	HasActiveSubscription bool    `json:"has_active_subscription"`
	SubscriptionStart     *int64  `json:"subscription_start,omitempty"`
	SubscriptionEnd       *int64  `json:"subscription_end,omitempty"`
	CancelAtPeriodEnd     bool    `json:"cancel_at_period_end"`
	CurrentDay            int     `json:"current_day"`
	DaysCompleted         int     `json:"days_completed"`
	OverallPercentage     int     `json:"overall_percentage"`
	LastActivity          *int64  `json:"last_activity,omitempty"`
	BillingCustomerID     *string `json:"-"`
}

func NewProfileResponse(a *db_models.Account) ProfileResponse {
	return ProfileResponse{
		ID:                    a.ID.String(),
		Name:                  a.Name,
		Email:                 a.Email,
		Role:                  string(a.Role),
		SubscriptionStatus:    string(a.SubscriptionStatus),
		HasActiveSubscription: a.HasActiveSubscription(),
		SubscriptionStart:     a.SubscriptionStart,
		SubscriptionEnd:       a.SubscriptionEnd,
		CancelAtPeriodEnd:     a.CancelAtPeriodEnd,
		CurrentDay:            a.CurrentDay,
		DaysCompleted:         a.DaysCompleted,
		OverallPercentage:     progress.OverallPercentage(a.DaysCompleted),
		LastActivity:          a.LastActivity,
		BillingCustomerID:     a.BillingCustomerID,
	}
}
