package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/cmd/fx/account_fx"
	"recovery/cmd/fx/billing_fx"
	"recovery/cmd/fx/community_fx"
	"recovery/cmd/fx/config_fx"
	"recovery/cmd/fx/controllers_fx"
	"recovery/cmd/fx/db_fx"
	"recovery/cmd/fx/jobs_fx"
	"recovery/cmd/fx/journal_fx"
	"recovery/cmd/fx/mail_fx"
	"recovery/cmd/fx/memcache_fx"
	"recovery/internal/api"
	"recovery/internal/config"
	"recovery/pkg/memcache"
	"recovery/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		db_fx.Module,
		mail_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		billing_fx.Module,
		journal_fx.Module,
		community_fx.Module,
		jobs_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownGrace)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(cfg *config.Config, ctrl api.Controllers, jwt *utils.JWTManager, limiter memcache.LimiterStore, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if !cfg.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins(),
		LoginPath:      cfg.LoginPath,
	}, ctrl, jwt, limiter, db, log)
}
