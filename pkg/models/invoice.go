package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxMode selects how the total tax is reported on the invoice
type TaxMode string

const (
	TaxModeLocal TaxMode = "local" // CGST + SGST, intra-state supply
	TaxModeIGST  TaxMode = "igst"  // single IGST component, inter-state supply
)

// ErrUnknownTaxMode is returned by ParseTaxMode for anything other than local or igst
var ErrUnknownTaxMode = errors.New("unknown tax mode")

// ParseTaxMode parses a user supplied tax mode. "inter-state" and "interstate" are accepted as aliases for igst.
func ParseTaxMode(s string) (TaxMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "":
		return TaxModeLocal, nil
	case "igst", "inter-state", "interstate":
		return TaxModeIGST, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTaxMode, s)
	}
}

// LineItem is one row of an invoice
type LineItem struct {
	ID             string          `json:"id"`          // Unique within the invoice, derived from creation time
	Description    string          `json:"description"` // Free text, also the catalog lookup key
	HSNCode        string          `json:"hsnCode"`     // Harmonized System code
	Quantity       decimal.Decimal `json:"qty"`         // Non-negative in normal use
	Unit           string          `json:"unit"`        // PCS, KG, NOS ...
	Rate           decimal.Decimal `json:"rate"`        // Price per unit before tax
	TaxRatePercent decimal.Decimal `json:"taxRate"`     // 0..100
}

// NewLineItem returns a blank item. Quantity, rate and tax rate are zero.
func NewLineItem() LineItem {
	return LineItem{
		ID:             strconv.FormatInt(time.Now().UnixNano(), 36),
		Quantity:       decimal.Zero,
		Rate:           decimal.Zero,
		TaxRatePercent: decimal.Zero,
	}
}

// PartyInfo describes the sender or the receiver of an invoice
type PartyInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`            // Multi-line
	TaxID    string `json:"gstin"`              // GSTIN, may be empty
	Phone    string `json:"phone,omitempty"`    // Optional
	Title    string `json:"title,omitempty"`    // Sender letterhead only
	SubTitle string `json:"subTitle,omitempty"` // Sender letterhead only
}

// InvoiceDetails holds the header fields of an invoice. Dates are ISO (YYYY-MM-DD) strings.
type InvoiceDetails struct {
	InvoiceNumber      string `json:"invoiceNo"`
	Date               string `json:"date"`
	Time               string `json:"time,omitempty"`
	PaymentTerms       string `json:"paymentTerms"`
	Signatory          string `json:"signatory"`
	VehicleNumber      string `json:"vehicleNumber,omitempty"`
	TermsAndConditions string `json:"termsAndConditions,omitempty"`

	// Logistics
	PurchaseOrderNumber   string `json:"poNumber,omitempty"`
	PurchaseOrderDate     string `json:"poDate,omitempty"`
	DispatchMethod        string `json:"dispatchMethod,omitempty"`
	LorryReceiptNumber    string `json:"lrNumber,omitempty"`
	LorryReceiptDate      string `json:"lrDate,omitempty"`
	FreightTerms          string `json:"freightTerms,omitempty"`
	DeliveryChallanNumber string `json:"dcNumber,omitempty"`
	DeliveryChallanDate   string `json:"dcDate,omitempty"`
}

// InvoiceDocument is the unit of editing. It lives in memory (or a working file) until saved.
type InvoiceDocument struct {
	Sender   PartyInfo      `json:"sender"`
	Receiver PartyInfo      `json:"receiver"`
	Details  InvoiceDetails `json:"details"`
	Items    []LineItem     `json:"items"`
}

// Clone returns a copy that shares no mutable state with d
func (d InvoiceDocument) Clone() InvoiceDocument {
	out := d
	if d.Items != nil {
		out.Items = make([]LineItem, len(d.Items))
		copy(out.Items, d.Items)
	}
	return out
}

// ItemIndex returns the position of the item with the given id, or -1
func (d *InvoiceDocument) ItemIndex(id string) int {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// SavedInvoiceRecord is an immutable snapshot of a document in the invoice history
type SavedInvoiceRecord struct {
	ID           string          `json:"id"`      // Generated, never reused
	CustomerName string          `json:"name"`    // Receiver name or "Unknown"
	Date         string          `json:"date"`    // Invoice date (ISO)
	Amount       int64           `json:"amount"`  // Rounded total amount
	SavedAt      int64           `json:"savedAt"` // Unix milliseconds
	Document     InvoiceDocument `json:"data"`    // Copy of the document at save time
}

// SavedAtTime returns SavedAt as a time.Time
func (r SavedInvoiceRecord) SavedAtTime() time.Time {
	return time.UnixMilli(r.SavedAt)
}

// DefaultDocument returns a blank document prefilled with the default sender letterhead
func DefaultDocument(now time.Time) InvoiceDocument {
	return InvoiceDocument{
		Sender: PartyInfo{
			Name:    "ASM INTERIORS",
			Address: "SF NO. 659/2B\nKUNIYAMUTHUR\nCoimbatore - 641 008",
			TaxID:   "33DWJPA2576P1Z5",
			Phone:   "7092983982, 7092983986",
		},
		Details: InvoiceDetails{
			Date:         now.Format(DateLayout),
			Time:         now.Format("15:04"),
			PaymentTerms: "Credit",
			Signatory:    "Authorised Signatory",
		},
		Items: []LineItem{},
	}
}

// DateLayout is the ISO date layout used for all invoice dates
const DateLayout = "2006-01-02"
