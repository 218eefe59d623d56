package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/api/controllers"
	"recovery/internal/entitlement"
	"recovery/internal/metrics"
	"recovery/pkg/memcache"
	"recovery/pkg/middleware"
	"recovery/pkg/utils"
)

type Controllers struct {
	Account      *controllers.AccountController
	Subscription *controllers.SubscriptionController
	Journal      *controllers.JournalController
	Community    *controllers.CommunityController
	Admin        *controllers.AdminController
}

type RouterConfig struct {
	AllowedOrigins []string
	// LoginPath is where unauthenticated page requests are redirected.
	LoginPath string
}

func NewRouter(cfg RouterConfig, ctrl Controllers, jwt *utils.JWTManager, limiter memcache.LimiterStore, db *gorm.DB, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.ZapLogger(log))
	r.Use(metrics.GinMiddleware())
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"},
			ExposeHeaders:    []string{"X-Trace-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	RegisterRoutes(r, cfg, ctrl, jwt, limiter, db)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg RouterConfig, ctrl Controllers, jwt *utils.JWTManager, limiter memcache.LimiterStore, db *gorm.DB) {
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.RespondSuccess(c, nil, "ok")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	limited := middleware.RateLimit(limiter)
	apiAuth := middleware.JWTAuthMiddleware(jwt, "")
	pageAuth := middleware.JWTAuthMiddleware(jwt, cfg.LoginPath)

	r.POST("/register", limited, ctrl.Account.Register)
	r.POST("/login", limited, ctrl.Account.Login)
	r.POST("/logout", ctrl.Account.Logout)
	r.GET("/profile", apiAuth, ctrl.Account.Profile)

	r.POST("/subscribe", limited, ctrl.Community.Subscribe)
	r.POST("/unsubscribe", limited, ctrl.Community.Unsubscribe)
	r.POST("/contact", limited, ctrl.Community.Contact)

	sub := r.Group("/subscription")
	sub.GET("/info", middleware.OptionalAuth(jwt), ctrl.Subscription.Info)
	sub.GET("/success", ctrl.Subscription.Success)
	sub.GET("/cancel", ctrl.Subscription.Cancel)
	sub.GET("/checkout", pageAuth, ctrl.Subscription.Checkout)
	sub.GET("/manage", pageAuth, ctrl.Subscription.Manage)
	sub.GET("/status", apiAuth, ctrl.Subscription.Status)
	sub.POST("/cancel-at-period-end", apiAuth, ctrl.Subscription.CancelAtPeriodEnd)

	r.GET("/dashboard", pageAuth, ctrl.Journal.Dashboard)
	r.GET("/recovery-journal", pageAuth, ctrl.Journal.JournalDay)
	r.GET("/journal-pdf", pageAuth, ctrl.Journal.JournalPDF)
	r.POST("/save-journal-entry", apiAuth, ctrl.Journal.SaveEntry)
	r.POST("/save-pdf-annotation", apiAuth, ctrl.Journal.SaveAnnotation)

	admin := r.Group("/admin", apiAuth, middleware.RoleMiddleware(string(entitlement.RoleOwner)))
	admin.GET("/layout", ctrl.Admin.Layout)
	admin.POST("/layout/update", ctrl.Admin.UpdateLayout)
	admin.GET("/contacts", ctrl.Admin.Contacts)
	admin.POST("/contacts/:id/read", ctrl.Admin.MarkContactRead)
}
