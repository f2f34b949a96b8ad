package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/logger"
	"storefront-service/middleware"
	"storefront-service/routes"
	"storefront-service/sender"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const eventLedgerTTL = 24 * time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Storefront] Failed to load config: %v", err)
	}

	zapLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("[Storefront] Failed to initialize logger: %v", err)
	}
	defer zapLog.Sync()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zapLog.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	cartRepo := database.NewCartRepository(redisClient, cfg.CartTTL)
	eventLedger := database.NewEventLedger(redisClient, eventLedgerTTL)

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	cartSvc := services.NewCartService(cartRepo, zapLog)
	checkoutSvc := services.NewCheckoutService(stripeSvc, cfg.PublicOrigin, zapLog)

	var emailSender sender.EmailSender
	if cfg.NotificationsDisabled {
		emailSender = sender.NewLogSender(zapLog)
	} else {
		emailSender, err = sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			zapLog.Fatal("Failed to configure SMTP sender", zap.Error(err))
		}
	}
	notifySvc := services.NewNotificationService(emailSender, cfg.OrderNotifyEmail, zapLog)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLog))
	r.Use(middleware.SecurityHeaders())

	routes.Register(r,
		controllers.NewCartController(cartSvc, zapLog),
		controllers.NewCheckoutController(checkoutSvc, stripeSvc, cartSvc, zapLog),
		controllers.NewWebhookController(stripeSvc, eventLedger, notifySvc, zapLog),
		cfg.Origins,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zapLog.Info("Storefront service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Fatal("Shutdown error", zap.Error(err))
	}
	zapLog.Info("Server shutdown complete")
}
