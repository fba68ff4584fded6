package handler

import (
	"net/http"

	"ridefunnel/analytics"
	"ridefunnel/merge"
	"ridefunnel/model"
	"ridefunnel/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var funnelEngine *merge.Engine

// Init hands the handlers the merge engine they serve from. Called once at
// startup after the event tables are loaded.
func Init(engine *merge.Engine) {
	funnelEngine = engine
}

// getFunnel resolves the cached funnel table. Schema violations map to 422
// with the offending table and column, everything else to 500.
func getFunnel(c *gin.Context) (model.FunnelTable, bool) {
	funnel, err := funnelEngine.Funnel()
	if err != nil {
		log.WithError(err).Error(model.ErrMsgFunnelBuildFailure)
		if model.IsSchemaError(err) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": model.ErrMsgFunnelBuildFailure})
		}
		return nil, false
	}
	return funnel, true
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func FunnelStepsHandler(c *gin.Context) {
	funnel, ok := getFunnel(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.FunnelSteps(funnel))
}

func FunnelConversionsHandler(c *gin.Context) {
	funnel, ok := getFunnel(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.StepConversions(analytics.FunnelSteps(funnel)))
}

func PlatformFunnelHandler(c *gin.Context) {
	funnel, ok := getFunnel(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.PlatformFunnel(funnel))
}

func AgeGroupFunnelHandler(c *gin.Context) {
	funnel, ok := getFunnel(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.AgeGroupFunnel(funnel))
}

func RideDurationQualityHandler(c *gin.Context) {
	c.JSON(http.StatusOK, analytics.RideDurationQuality(funnelEngine.Tables().Requests))
}

func DropoffGapHandler(c *gin.Context) {
	c.JSON(http.StatusOK, analytics.AnalyzeDropoffGap(funnelEngine.Tables().Requests))
}

func WaitTimesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, analytics.AnalyzeWaitTimes(funnelEngine.Tables().Requests))
}

func HourlyDemandHandler(c *gin.Context) {
	c.JSON(http.StatusOK, analytics.HourlyDemand(funnelEngine.Tables().Requests))
}

func WarmupStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, analytics.WarmupStats(funnelEngine.Tables()))
}

// RebuildFunnelHandler drops the cached funnel and rebuilds it immediately.
func RebuildFunnelHandler(c *gin.Context) {
	funnelEngine.Invalidate()
	funnel, ok := getFunnel(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"funnel_rows": len(funnel)})
}

// ReloadTablesHandler loads a fresh snapshot from the primary datastore and
// swaps it into the engine. The funnel rebuilds lazily on the next read.
func ReloadTablesHandler(c *gin.Context) {
	tables, err := store.GetStore().LoadTables()
	if err != nil {
		log.WithError(err).Error(model.ErrMsgLoadingTablesFailure)
		if model.IsSchemaError(err) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": model.ErrMsgLoadingTablesFailure})
		}
		return
	}

	funnelEngine.SetTables(tables)
	c.JSON(http.StatusOK, gin.H{
		"downloads":    len(tables.Downloads),
		"signups":      len(tables.Signups),
		"requests":     len(tables.Requests),
		"transactions": len(tables.Transactions),
		"reviews":      len(tables.Reviews),
	})
}
