package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recovery/internal/models/response_models"
	"recovery/internal/services"
	"recovery/pkg/middleware"
	"recovery/pkg/utils"
)

// PlanInfo describes the single paid plan.
type PlanInfo struct {
	ProductName string
	PriceCents  int64
	Currency    string
	Interval    string
}

type SubscriptionController struct {
	subscriptionService services.ISubscriptionService
	accountService      services.AccountServiceInterface
	plan                PlanInfo
}

func NewSubscriptionController(subscriptionService services.ISubscriptionService, accountService services.AccountServiceInterface, plan PlanInfo) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		accountService:      accountService,
		plan:                plan,
	}
}

// Info godoc
// @Summary Subscription plan
// @Description Price and interval of the journal subscription, plus the caller's entitlement
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /subscription/info [get]
func (s *SubscriptionController) Info(c *gin.Context) {
	info := response_models.SubscriptionInfoResponse{
		ProductName: s.plan.ProductName,
		PriceCents:  s.plan.PriceCents,
		Currency:    s.plan.Currency,
		Interval:    s.plan.Interval,
	}
	if userID, ok := middleware.UserID(c); ok {
		if account, err := s.accountService.GetProfile(c.Request.Context(), userID); err == nil {
			info.HasActiveSubscription = account.HasActiveSubscription()
		}
	}
	utils.RespondSuccess(c, info, "")
}

// Checkout godoc
// @Summary Start checkout
// @Description Redirects to the hosted payment page
// @Tags Subscription
// @Success 303
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/checkout [get]
func (s *SubscriptionController) Checkout(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	url, err := s.subscriptionService.InitiateCheckout(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}

// Success godoc
// @Summary Confirm payment
// @Description Reconciles the checkout session with the account recorded in its metadata
// @Tags Subscription
// @Produce json
// @Param session_id query string true "Checkout session id"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Router /subscription/success [get]
func (s *SubscriptionController) Success(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invalid session. Please try again.")
		return
	}

	account, err := s.subscriptionService.ConfirmPayment(c.Request.Context(), sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewProfileResponse(account),
		"Welcome to your Recovery Journal! Your subscription is now active.")
}

// Cancel godoc
// @Summary Checkout abandoned
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /subscription/cancel [get]
func (s *SubscriptionController) Cancel(c *gin.Context) {
	utils.RespondSuccess(c, nil, "Subscription process was canceled. You can try again anytime.")
}

// Manage godoc
// @Summary Manage subscription
// @Description Redirects to the billing self-service portal
// @Tags Subscription
// @Success 303
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/manage [get]
func (s *SubscriptionController) Manage(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	url, err := s.subscriptionService.ManageURL(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}

// Status godoc
// @Summary Refresh subscription status
// @Description Pulls the latest status from the billing provider
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/status [get]
func (s *SubscriptionController) Status(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	account, err := s.subscriptionService.SyncStatus(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewProfileResponse(account), "Subscription status refreshed")
}

// CancelAtPeriodEnd godoc
// @Summary Cancel at period end
// @Description Stops renewal; access continues until the paid period ends
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/cancel-at-period-end [post]
func (s *SubscriptionController) CancelAtPeriodEnd(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	account, err := s.subscriptionService.CancelAtPeriodEnd(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewProfileResponse(account),
		"Your subscription will end at the close of the current billing period.")
}
