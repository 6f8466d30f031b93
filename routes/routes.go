package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricejoshua/wehavefoodathome-backend/controllers"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/pricejoshua/wehavefoodathome-backend/metrics"
	"github.com/pricejoshua/wehavefoodathome-backend/middlewares"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router mounts. Nil controllers leave their routes out.
type Deps struct {
	Verifier       middlewares.TokenVerifier
	ReceiptLimiter *middlewares.RateLimiter
	Gatherer       prometheus.Gatherer
	Ready          func(ctx context.Context) error

	Houses    *controllers.HouseController
	FoodItems *controllers.FoodItemController
	FoodTags  *controllers.FoodTagController
	FoodLogs  *controllers.FoodLogController
	Products  *controllers.ProductController
	Profiles  *controllers.ProfileController
	Uploads   *controllers.UploadController
	Receipts  *controllers.ReceiptController
	Realtime  *controllers.RealtimeController
	Alerts    *controllers.AlertController
	Devices   *controllers.DeviceController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = controllers.MaxUploadSize + 1<<20
	r.Use(logger.Middleware(), metrics.Middleware(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	api.Use(middlewares.AuthMiddleware(d.Verifier))

	id := middlewares.ValidateUUIDParam("id")
	houseQuery := middlewares.RequireQuery("house_id")

	if hc := d.Houses; hc != nil {
		houses := api.Group("/houses")
		houses.GET("", hc.List)
		houses.POST("", hc.Create)
		houses.POST("/members", hc.AddMember)
		houses.DELETE("/members", hc.RemoveMember)
		houses.GET("/:id", id, hc.Get)
		houses.PUT("/:id", id, hc.Update)
		houses.DELETE("/:id", id, hc.Delete)
		houses.GET("/:id/members", id, hc.Members)
	}

	if fc := d.FoodItems; fc != nil {
		items := api.Group("/food-items")
		items.GET("", houseQuery, fc.List)
		items.GET("/search", middlewares.RequireQuery("house_id", "query"), fc.Search)
		items.POST("", fc.Create)
		items.GET("/:id", id, fc.Get)
		items.PUT("/:id", id, fc.Update)
		items.DELETE("/:id", id, fc.Delete)
		items.GET("/:id/history", id, fc.History)
		items.GET("/:id/tags", id, fc.Tags)
	}

	if tc := d.FoodTags; tc != nil {
		tags := api.Group("/food-tags")
		tags.GET("", houseQuery, tc.Visible)
		tags.POST("", tc.Tag)
		tags.DELETE("", tc.Untag)
		tags.POST("/bulk", tc.BulkTag)
	}

	if lc := d.FoodLogs; lc != nil {
		logs := api.Group("/food-logs")
		logs.GET("", houseQuery, lc.Activity)
		logs.GET("/summary", houseQuery, lc.Summary)
	}

	if pc := d.Products; pc != nil {
		products := api.Group("/products")
		products.GET("", pc.List)
		products.POST("", pc.Create)
		products.GET("/search", middlewares.RequireQuery("query"), pc.Search)
		products.GET("/barcode/:barcode", middlewares.ValidateBarcodeParam(), pc.ByBarcode)
		products.POST("/recognize", pc.Recognize)
		products.GET("/:id", id, pc.Get)
		products.PUT("/:id", id, pc.Update)
		products.DELETE("/:id", id, pc.Delete)

		api.GET("/categories", pc.Categories)
	}

	if pc := d.Profiles; pc != nil {
		profiles := api.Group("/profiles")
		profiles.GET("/search", middlewares.RequireQuery("query"), pc.Search)
		profiles.GET("/username/:username", pc.ByUsername)
		profiles.POST("", pc.Create)
		profiles.GET("/:id", id, pc.Get)
		profiles.PUT("/:id", id, pc.Update)
		profiles.DELETE("/:id", id, pc.Delete)
	}

	if d.Uploads != nil {
		api.POST("/upload", d.Uploads.Upload)
	}

	if rc := d.Receipts; rc != nil {
		receipts := api.Group("/receipts")
		parse := []gin.HandlerFunc{}
		if d.ReceiptLimiter != nil {
			parse = append(parse, d.ReceiptLimiter.Middleware())
		}
		receipts.POST("/parse", append(parse, rc.Parse)...)
		receipts.GET("/providers", rc.Providers)
	}

	if d.Realtime != nil {
		api.GET("/ws", houseQuery, d.Realtime.HouseWS)
	}

	if d.Alerts != nil {
		api.GET("/alerts", houseQuery, d.Alerts.List)
	}

	if dc := d.Devices; dc != nil {
		api.POST("/devices", dc.Register)
		api.POST("/notifications/toggle", dc.ToggleNotifications)
	}

	return r
}
