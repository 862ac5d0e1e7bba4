package invoice

import (
	"time"

	"github.com/google/uuid"
	"invoicer/pkg/models"
)

// UnknownCustomer is stored as the customer name when the receiver has none
const UnknownCustomer = "Unknown"

// Builder turns a live document into a saved record. Now and NewID are injectable for tests.
type Builder struct {
	Now   func() time.Time
	NewID func() string
}

// NewBuilder returns a builder using the wall clock and random UUIDs
func NewBuilder() *Builder {
	return &Builder{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Build snapshots doc. The amount is recomputed from the items, never taken from the caller,
// and the embedded document is a copy.
func (b *Builder) Build(doc models.InvoiceDocument) models.SavedInvoiceRecord {
	now := b.now()

	name := doc.Receiver.Name
	if name == "" {
		name = UnknownCustomer
	}

	date := doc.Details.Date
	if date == "" {
		date = now.Format(models.DateLayout)
	}

	return models.SavedInvoiceRecord{
		ID:           b.newID(),
		CustomerName: name,
		Date:         date,
		Amount:       FinalAmount(TotalAmount(doc.Items)).IntPart(),
		SavedAt:      now.UnixMilli(),
		Document:     doc.Clone(),
	}
}

func (b *Builder) now() time.Time {
	if b == nil || b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) newID() string {
	if b == nil || b.NewID == nil {
		return uuid.NewString()
	}
	return b.NewID()
}
