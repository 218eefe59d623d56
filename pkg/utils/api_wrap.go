package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// ErrorStatus maps a service error to its HTTP status and a message that is
// safe to show to the user.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, ErrInvalidDay):
		return http.StatusBadRequest, "Invalid day number"
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest, "Invalid page number"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, ErrSubscriptionRequired):
		return http.StatusForbidden, "Active subscription required"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "Forbidden: insufficient permissions"
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, ErrNotSubscribed):
		return http.StatusNotFound, "This email is not on our mailing list"
	case errors.Is(err, ErrDuplicateIdentity):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, ErrAlreadySubscribed):
		return http.StatusConflict, "This email is already subscribed to our updates!"
	case errors.Is(err, ErrNoBillingIdentity):
		return http.StatusConflict, "No subscription found"
	case errors.Is(err, ErrPaymentNotConfirmed):
		return http.StatusPaymentRequired, "Payment verification failed. Please contact support."
	case errors.Is(err, ErrCheckoutUnavailable):
		return http.StatusBadGateway, "Error creating checkout session. Please try again."
	case errors.Is(err, ErrPortalUnavailable):
		return http.StatusBadGateway, "Error accessing subscription management."
	case errors.Is(err, ErrSubscriptionStatus):
		return http.StatusBadGateway, "Subscription status is unavailable right now."
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func HandleServiceError(c *gin.Context, err error) {
	code, message := ErrorStatus(err)
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("trace_id", traceID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}
