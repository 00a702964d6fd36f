package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity rechecks cached invoice paid amounts.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskRateConflictScan audits the price list for conflicting entries.
	TaskRateConflictScan = "rates:conflict_scan"
	// TaskRevenueWarmup precomputes the revenue estimate cache.
	TaskRevenueWarmup = "rates:revenue_warmup"
)

// LedgerIntegrityPayload selects the scope of an integrity scan.
// A zero InvoiceID scans every invoice.
type LedgerIntegrityPayload struct {
	InvoiceID int64 `json:"invoice_id"`
	Repair    bool  `json:"repair"`
}

// NewLedgerIntegrityTask constructs an Asynq task.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// NewRateConflictScanTask constructs an Asynq task.
func NewRateConflictScanTask() *asynq.Task {
	return asynq.NewTask(TaskRateConflictScan, nil)
}

// NewRevenueWarmupTask constructs an Asynq task.
func NewRevenueWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskRevenueWarmup, nil)
}
