package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recovery/internal/models/request_models"
	"recovery/internal/models/response_models"
	"recovery/internal/services"
	"recovery/pkg/middleware"
	"recovery/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	jwt            *utils.JWTManager
	secureCookies  bool
}

func NewAccountController(accountService services.AccountServiceInterface, jwt *utils.JWTManager, secureCookies bool) *AccountController {
	return &AccountController{
		accountService: accountService,
		jwt:            jwt,
		secureCookies:  secureCookies,
	}
}

func (a *AccountController) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(a.jwt.TTL().Seconds()), "/", "", a.secureCookies, true)
}

// Register godoc
// @Summary Register a new account
// @Description Create an account with an inactive subscription
// @Tags Accounts
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	// sign the new account in so checkout can start straight away
	token, err := a.jwt.CreateToken(account.ID, string(account.Role))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	a.setSession(c, token)

	utils.RespondSuccess(c, response_models.LoginResponse{
		Token:                 token,
		HasActiveSubscription: account.HasActiveSubscription(),
	}, "Account created successfully! Please complete your subscription to access the journal.")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate and receive a token; the token is also set as a cookie
// @Tags Accounts
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, account, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	a.setSession(c, token)

	utils.RespondSuccess(c, response_models.LoginResponse{
		Token:                 token,
		HasActiveSubscription: account.HasActiveSubscription(),
	}, "Login successful")
}

// Logout godoc
// @Summary Logout
// @Tags Accounts
// @Success 200 {object} utils.APIResponse
// @Router /logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", a.secureCookies, true)
	utils.RespondSuccess(c, nil, "You have been logged out")
}

// Profile godoc
// @Summary Current account
// @Description Subscription state and journal progress of the signed-in account
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /profile [get]
func (a *AccountController) Profile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := a.accountService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewProfileResponse(account), "Profile fetched successfully")
}
