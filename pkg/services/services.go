package services

import (
	"context"

	"invoicer/pkg/models"
)

// RowSource defines the interface for reading and writing back spreadsheet rows
type RowSource interface {
	// Rows returns the data rows of a tab in sheet order. Completely blank rows are skipped.
	Rows(ctx context.Context, tab string) ([]*models.Row, error)

	// Save persists the cells changed on the row since it was read
	Save(ctx context.Context, row *models.Row) error
}

// DeliverySink defines the interface for storing rendered invoices remotely
type DeliverySink interface {
	// Deliver creates the file, or overwrites an existing file with the same name
	Deliver(ctx context.Context, fileName string, data []byte, mimeType string) (*DeliveryResult, error)
}

// Delivery actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// DeliveryResult describes what a sink did with a file
type DeliveryResult struct {
	FileName string `json:"file_name"`
	Action   string `json:"action"`   // created or updated
	Location string `json:"location"` // File ID, object key or URL
}

// String renders the result for log lines and command output
func (r *DeliveryResult) String() string {
	return r.FileName + " " + r.Action + " (" + r.Location + ")"
}
