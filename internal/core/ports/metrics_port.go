package ports

import (
	"time"

	"github.com/gin-gonic/gin"
)

type MetricsPort interface {
	RecordMetrics(c *gin.Context, start time.Time)
}

// EventRecorder counts business events emitted by the services.
type EventRecorder interface {
	RecordEvent(event string)
	RecordCacheLookup(hit bool)
}
