package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recovery/internal/models/request_models"
	"recovery/internal/models/response_models"
	"recovery/internal/services"
	"recovery/pkg/middleware"
	"recovery/pkg/utils"
)

type AdminController struct {
	settingService   services.SettingServiceInterface
	communityService services.CommunityServiceInterface
}

func NewAdminController(settingService services.SettingServiceInterface, communityService services.CommunityServiceInterface) *AdminController {
	return &AdminController{
		settingService:   settingService,
		communityService: communityService,
	}
}

// Layout godoc
// @Summary Dashboard layout settings
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/layout [get]
func (a *AdminController) Layout(c *gin.Context) {
	settings, err := a.settingService.GetAll(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, settings, "")
}

// UpdateLayout godoc
// @Summary Update a layout setting
// @Tags Admin
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body request_models.UpdateSettingRequest true "Setting"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/layout/update [post]
func (a *AdminController) UpdateLayout(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req request_models.UpdateSettingRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.settingService.Update(c.Request.Context(), userID, req.Name, req.Value); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Layout setting updated")
}

// Contacts godoc
// @Summary Contact messages
// @Tags Admin
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param unread_only query bool false "Only unread"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/contacts [get]
func (a *AdminController) Contacts(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var q request_models.ListContactsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query")
		return
	}

	msgs, total, err := a.communityService.ListContacts(c.Request.Context(), userID, q)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	items := make([]response_models.ContactMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, response_models.ContactMessageResponse{
			ID:        m.ID.String(),
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Message:   m.Message,
			IsRead:    m.IsRead,
			CreatedAt: m.SubmittedDate,
		})
	}
	utils.RespondSuccess(c, response_models.ContactPage{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, "")
}

// MarkContactRead godoc
// @Summary Mark a contact message read
// @Tags Admin
// @Produce json
// @Param id path string true "Message id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/contacts/{id}/read [post]
func (a *AdminController) MarkContactRead(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid message id")
		return
	}
	if err := a.communityService.MarkContactRead(c.Request.Context(), userID, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Message marked as read")
}
