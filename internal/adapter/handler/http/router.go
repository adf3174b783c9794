package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sm8ta/webike_rental_manager/internal/config"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
	server *http.Server
}

type Handlers struct {
	Riders      *RiderHandler
	Bikes       *BikeHandler
	Assignments *AssignmentHandler
	Payments    *PaymentHandler
	Maintenance *MaintenanceHandler
	Reports     *ReportHandler
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	h Handlers,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	origins := strings.Split(cfg.AllowedOrigins, ",")
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("")
	api.Use(AuthMiddleware(tokenService))

	riders := api.Group("/riders")
	{
		riders.POST("", h.Riders.CreateRider)
		riders.GET("", h.Riders.ListRiders)
		riders.GET("/:id", h.Riders.GetRider)
		riders.PUT("/:id", h.Riders.UpdateRider)
		riders.DELETE("/:id", h.Riders.DeactivateRider)
	}

	bikes := api.Group("/bikes")
	{
		bikes.POST("", h.Bikes.CreateBike)
		bikes.GET("", h.Bikes.ListBikes)
		bikes.GET("/:id", h.Bikes.GetBike)
		bikes.PUT("/:id", h.Bikes.UpdateBike)
		bikes.DELETE("/:id", h.Bikes.RetireBike)
	}

	assignments := api.Group("/assignments")
	{
		assignments.POST("", h.Assignments.CreateAssignment)
		assignments.GET("", h.Assignments.ListAssignments)
		assignments.DELETE("", h.Assignments.TerminateAssignment)
		assignments.GET("/:id", h.Assignments.GetAssignment)
		assignments.POST("/:id/complete", h.Assignments.CompleteAssignment)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", h.Payments.RecordPayment)
		payments.GET("", h.Payments.ListPayments)
		payments.POST("/assess-late-fees", h.Payments.AssessLateFees)
		payments.GET("/:id", h.Payments.GetPayment)
		payments.POST("/:id/pay", h.Payments.MarkPaymentPaid)
		payments.POST("/:id/refund", h.Payments.RefundPayment)
	}

	maintenance := api.Group("/maintenance")
	{
		maintenance.POST("", h.Maintenance.ScheduleMaintenance)
		maintenance.GET("", h.Maintenance.ListMaintenance)
		maintenance.GET("/:id", h.Maintenance.GetMaintenance)
		maintenance.PATCH("/:id/status", h.Maintenance.UpdateMaintenanceStatus)
	}

	api.GET("/dashboard", h.Reports.Dashboard)
	api.GET("/analytics", h.Reports.Analytics)
	api.POST("/admin/reconcile", h.Reports.Reconcile)

	return &Router{
		router: router,
		server: &http.Server{Handler: router},
	}, nil
}

// Serve blocks until the server stops. A graceful Shutdown returns nil.
func (r *Router) Serve(addr string) error {
	r.server.Addr = addr
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
