package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/pricejoshua/wehavefoodathome-backend/config"
	"github.com/pricejoshua/wehavefoodathome-backend/controllers"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/pricejoshua/wehavefoodathome-backend/metrics"
	"github.com/pricejoshua/wehavefoodathome-backend/middlewares"
	"github.com/pricejoshua/wehavefoodathome-backend/routes"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
	"github.com/pricejoshua/wehavefoodathome-backend/services/receipts"
	"github.com/pricejoshua/wehavefoodathome-backend/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Server.Env, cfg.ServiceName); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("Starting service", cfg.Fields()...)

	gin.SetMode(cfg.Server.GinMode)
	metrics.Register(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	awsCfg, err := utils.LoadAWSConfig(ctx, cfg.AWS.Region)
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}
	s3Cfg := awsCfg.Copy()
	s3Cfg.Region = cfg.S3.Region
	store := utils.NewObjectStore(s3.NewFromConfig(s3Cfg), cfg.S3.Bucket, cfg.S3.PublicURL, cfg.S3.PresignTTL)

	var barcodeCache services.BarcodeCache
	if cfg.Redis.URL != "" {
		rc, err := services.NewRedisBarcodeCache(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		if err := rc.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, barcode lookups will not be cached", zap.Error(err))
		} else {
			barcodeCache = rc
			defer func() { _ = rc.Close() }()
		}
	}
	off := services.NewOpenFoodFactsClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.Timeout, barcodeCache, cfg.Redis.CacheTTL)

	hub := services.NewRealtimeHub()
	houseSvc := services.NewHouseService(db)
	foodItemSvc := services.NewFoodItemService(db, hub)
	foodTagSvc := services.NewFoodTagService(db)
	pushSvc := services.NewPushService(db, sns.NewFromConfig(awsCfg), cfg.Push.FCMPlatformARN, cfg.Push.APNSPlatformARN)
	alertSvc := services.NewAlertService(db, hub, pushSvc)
	receiptSvc := receipts.NewService(cfg.Receipt)
	if avail := receiptSvc.Available(); len(avail) == 0 {
		log.Warn("No receipt parser credentials configured")
	} else {
		log.Info("Receipt parsers available", zap.Strings("providers", avail))
	}

	if cfg.Expiry.Enabled {
		notifier := services.NewExpiryNotifier(alertSvc, cfg.Expiry.Schedule, cfg.Expiry.Window)
		if err := notifier.Start(); err != nil {
			log.Fatal("Failed to start expiry notifier", zap.Error(err))
		}
		defer func() { <-notifier.Stop().Done() }()
	}

	verifier, err := middlewares.NewJWKSVerifier(ctx, cfg.Auth.KeySetURL())
	if err != nil {
		log.Fatal("Failed to load signing keys", zap.Error(err))
	}

	limiter := middlewares.NewRateLimiter(cfg.Receipt.RatePerMinute, cfg.Receipt.RateBurst)
	limiter.StartCleanup(ctx, 10*time.Minute)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}

	r := routes.SetupRouter(routes.Deps{
		Verifier:       verifier,
		ReceiptLimiter: limiter,
		Gatherer:       prometheus.DefaultGatherer,
		Ready:          sqlDB.PingContext,
		Houses:         controllers.NewHouseController(houseSvc),
		FoodItems:      controllers.NewFoodItemController(foodItemSvc, foodTagSvc),
		FoodTags:       controllers.NewFoodTagController(foodTagSvc),
		FoodLogs:       controllers.NewFoodLogController(services.NewFoodLogService(db)),
		Products:       controllers.NewProductController(services.NewProductService(db, off, utils.NewLabelDetector(awsCfg))),
		Profiles:       controllers.NewProfileController(services.NewProfileService(db)),
		Uploads:        controllers.NewUploadController(store),
		Receipts:       controllers.NewReceiptController(receiptSvc, store),
		Realtime:       controllers.NewRealtimeController(hub, houseSvc),
		Alerts:         controllers.NewAlertController(alertSvc),
		Devices:        controllers.NewDeviceController(pushSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
