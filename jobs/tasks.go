package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueScan is the task type for the nightly overdue document scan.
	TaskOverdueScan = "documents:overdue_scan"
)

// OverdueScanPayload carries the reference date for an overdue scan run.
// A zero AsOf means "today" at the time the handler executes.
type OverdueScanPayload struct {
	AsOf time.Time `json:"asOf,omitempty"`
}

// NewOverdueScanTask constructs an Asynq task for the overdue scan.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueScan, data), nil
}
