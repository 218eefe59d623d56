package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recovery/internal/models/request_models"
	"recovery/internal/services"
	"recovery/pkg/utils"
)

type CommunityController struct {
	communityService services.CommunityServiceInterface
}

func NewCommunityController(communityService services.CommunityServiceInterface) *CommunityController {
	return &CommunityController{communityService: communityService}
}

// Subscribe godoc
// @Summary Join the mailing list
// @Description Sends the free welcome package; a delivery failure does not undo the signup
// @Tags Community
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body request_models.SubscribeRequest true "Subscriber"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /subscribe [post]
func (cc *CommunityController) Subscribe(c *gin.Context) {
	var req request_models.SubscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Please enter a valid email address.")
		return
	}

	res, err := cc.communityService.Subscribe(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"reactivated": res.Reactivated, "email_sent": res.EmailSent}, res.Message())
}

// Unsubscribe godoc
// @Summary Leave the mailing list
// @Tags Community
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body request_models.UnsubscribeRequest true "Subscriber"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /unsubscribe [post]
func (cc *CommunityController) Unsubscribe(c *gin.Context) {
	var req request_models.UnsubscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Please enter a valid email address.")
		return
	}

	if err := cc.communityService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "You have been unsubscribed.")
}

// Contact godoc
// @Summary Send a contact message
// @Tags Community
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body request_models.ContactRequest true "Message"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /contact [post]
func (cc *CommunityController) Contact(c *gin.Context) {
	var req request_models.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Please check the form and try again.")
		return
	}

	if _, err := cc.communityService.SubmitContact(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Thank you for your message! We'll get back to you soon.")
}
