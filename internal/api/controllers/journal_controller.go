package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recovery/internal/models/request_models"
	"recovery/internal/models/response_models"
	"recovery/internal/progress"
	"recovery/internal/services"
	"recovery/pkg/middleware"
	"recovery/pkg/utils"
)

// SubscriptionInfoPath is where gated pages send visitors without access.
const SubscriptionInfoPath = "/subscription/info"

type JournalController struct {
	journalService services.JournalServiceInterface
	settingService services.SettingServiceInterface
	log            *zap.Logger
}

func NewJournalController(journalService services.JournalServiceInterface, settingService services.SettingServiceInterface, log *zap.Logger) *JournalController {
	return &JournalController{
		journalService: journalService,
		settingService: settingService,
		log:            log,
	}
}

// pageError redirects to the subscription page when access is missing.
func pageError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrSubscriptionRequired) {
		c.Redirect(http.StatusSeeOther, SubscriptionInfoPath)
		return
	}
	utils.HandleServiceError(c, err)
}

// saveError answers the shape the journal page script reads.
func saveError(c *gin.Context, err error) {
	code, msg := utils.ErrorStatus(err)
	c.JSON(code, response_models.SaveResponse{Success: false, Error: msg})
}

// queryInt returns 0 for a missing or malformed value so the clamp applies.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// Dashboard godoc
// @Summary Journal dashboard
// @Description All thirty entries in day order with progress and theme settings
// @Tags Journal
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Success 303 "redirect to /subscription/info without an active subscription"
// @Security BearerAuth
// @Router /dashboard [get]
func (j *JournalController) Dashboard(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	dash, err := j.journalService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		pageError(c, err)
		return
	}

	settings, err := j.settingService.GetAll(c.Request.Context())
	if err != nil {
		j.log.Warn("dashboard settings unavailable", zap.Error(err))
		settings = services.DefaultSettings
	}

	entries := make([]response_models.EntryResponse, 0, len(dash.Entries))
	for i := range dash.Entries {
		entries = append(entries, response_models.NewEntryResponse(&dash.Entries[i]))
	}
	profile := response_models.NewProfileResponse(dash.Account)
	utils.RespondSuccess(c, response_models.DashboardResponse{
		Profile:           profile,
		Entries:           entries,
		TotalDays:         progress.TotalDays,
		OverallPercentage: profile.OverallPercentage,
		Settings:          settings,
	}, "")
}

// JournalDay godoc
// @Summary Journal entry for a day
// @Description Out-of-range or missing days fall back to the current day
// @Tags Journal
// @Produce json
// @Param day query int false "Day number (1-30)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /recovery-journal [get]
func (j *JournalController) JournalDay(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	day, err := j.journalService.GetDay(c.Request.Context(), userID, queryInt(c, "day"))
	if err != nil {
		pageError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.JournalDayResponse{
		Entry:      response_models.NewEntryResponse(day.Entry),
		CurrentDay: day.Account.CurrentDay,
		TotalDays:  progress.TotalDays,
	}, "")
}

// SaveEntry godoc
// @Summary Save a journal entry
// @Description Overwrites every field of the day's entry and may advance the current day
// @Tags Journal
// @Accept x-www-form-urlencoded
// @Produce json
// @Param day_number formData int true "Day number (1-30)"
// @Success 200 {object} response_models.SaveResponse
// @Failure 400 {object} response_models.SaveResponse
// @Failure 403 {object} response_models.SaveResponse
// @Security BearerAuth
// @Router /save-journal-entry [post]
func (j *JournalController) SaveEntry(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	// a malformed day becomes 0, which the service rejects after the
	// subscription check
	day, _ := strconv.Atoi(c.PostForm("day_number"))
	var req request_models.SaveEntryRequest
	if err := c.ShouldBind(&req); err != nil {
		saveError(c, utils.ErrInvalidInput)
		return
	}

	res, err := j.journalService.SaveEntry(c.Request.Context(), userID, day, req.ToInput())
	if err != nil {
		saveError(c, err)
		return
	}
	c.JSON(http.StatusOK, response_models.SaveResponse{
		Success:              true,
		CompletionPercentage: res.Percentage,
		IsCompleted:          res.Entry.Completed,
		Message:              "Journal entry saved successfully!",
	})
}

// JournalPDF godoc
// @Summary Workbook page annotation
// @Tags Journal
// @Produce json
// @Param page query int false "Page number (1-79)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journal-pdf [get]
func (j *JournalController) JournalPDF(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	annotation, err := j.journalService.GetPage(c.Request.Context(), userID, queryInt(c, "page"))
	if err != nil {
		pageError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewAnnotationResponse(annotation), "")
}

// SaveAnnotation godoc
// @Summary Save a workbook page annotation
// @Tags Journal
// @Accept x-www-form-urlencoded
// @Produce json
// @Param page_number formData int true "Page number (1-79)"
// @Success 200 {object} response_models.SaveResponse
// @Failure 400 {object} response_models.SaveResponse
// @Failure 403 {object} response_models.SaveResponse
// @Security BearerAuth
// @Router /save-pdf-annotation [post]
func (j *JournalController) SaveAnnotation(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	page, _ := strconv.Atoi(c.PostForm("page_number"))
	var req request_models.SaveAnnotationRequest
	if err := c.ShouldBind(&req); err != nil {
		saveError(c, utils.ErrInvalidInput)
		return
	}

	if _, err := j.journalService.SaveAnnotation(c.Request.Context(), userID, page, req.Notes, req.DrawingData); err != nil {
		saveError(c, err)
		return
	}
	c.JSON(http.StatusOK, response_models.SaveResponse{Success: true, Message: "Annotation saved successfully!"})
}
