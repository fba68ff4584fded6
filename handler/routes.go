package handler

import (
	C "ridefunnel/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func InitRoutes(r *gin.Engine) {
	// CORS
	if C.IsDevelopment() {
		log.Info("Running in development.")
		config := cors.DefaultConfig()
		config.AllowOrigins = []string{"http://localhost:8080",
			"http://localhost:3000"}
		r.Use(cors.New(config))
	}

	r.GET("/health", HealthHandler)
	r.GET("/warmup", WarmupStatsHandler)
	r.GET("/funnel/steps", FunnelStepsHandler)
	r.GET("/funnel/conversions", FunnelConversionsHandler)
	r.GET("/funnel/platform", PlatformFunnelHandler)
	r.GET("/funnel/age", AgeGroupFunnelHandler)
	r.GET("/timing/durations", RideDurationQualityHandler)
	r.GET("/timing/dropoff_gap", DropoffGapHandler)
	r.GET("/timing/wait_times", WaitTimesHandler)
	r.GET("/demand/hourly", HourlyDemandHandler)
	r.POST("/funnel/rebuild", RebuildFunnelHandler)
	r.POST("/tables/reload", ReloadTablesHandler)
}
