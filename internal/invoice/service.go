// Package invoice derives the figures of a GST invoice from its line items.
//
// Everything in this package except the document file helpers is pure: the same
// item list always yields the same totals, and nothing here touches storage.
//
// Computation rules:
//   - Item amount is quantity times rate, unrounded
//   - Tax is computed per line on the line amount, then summed
//   - The final amount rounds the total to the nearest integer, halves away from zero
//   - In local mode the tax is shown as CGST + SGST, each half of the total tax
//   - In igst mode the tax is shown as a single IGST component
//   - Amounts in words use the Indian scale (thousand, lakh, crore)
//
// Invalid numeric input is not rejected here. Callers coerce non-numeric form values
// to zero before building line items.
package invoice

import (
	"encoding/json"
	"fmt"
	"os"

	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// LoadDocument reads an invoice document from a JSON file. Items with a missing or
// repeated id get a fresh one; the totals never depend on ids.
func LoadDocument(path string) (models.InvoiceDocument, error) {
	const op = "LoadDocument"

	var doc models.InvoiceDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, NewDocumentError(op, path, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, NewDocumentError(op, path, fmt.Errorf("%w: %v", ErrInvalidDocument, err))
	}

	// Hand-written bills often omit item ids
	if n := AssignItemIDs(&doc); n > 0 {
		log := logger.WithComponent("invoice")
		log.Warn().
			Str("path", path).
			Int("items", n).
			Msg("Assigned fresh ids to line items with a missing or repeated id")
	}
	return doc, nil
}

// SaveDocument writes doc as indented JSON
func SaveDocument(path string, doc models.InvoiceDocument) error {
	const op = "SaveDocument"

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return NewDocumentError(op, path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewDocumentError(op, path, err)
	}
	return nil
}

// AssignItemIDs gives every item whose id is empty or already used by an earlier
// item a fresh id, and returns how many items changed
func AssignItemIDs(doc *models.InvoiceDocument) int {
	taken := make(map[string]struct{}, len(doc.Items))
	var fix []int
	for i, item := range doc.Items {
		if _, dup := taken[item.ID]; item.ID == "" || dup {
			fix = append(fix, i)
			continue
		}
		taken[item.ID] = struct{}{}
	}

	for _, i := range fix {
		id := models.NewLineItem().ID
		for {
			if _, dup := taken[id]; !dup {
				break
			}
			id += "0"
		}
		taken[id] = struct{}{}
		doc.Items[i].ID = id
	}
	return len(fix)
}

// CheckDocument verifies that line item identifiers are unique
func CheckDocument(doc models.InvoiceDocument) error {
	seen := make(map[string]struct{}, len(doc.Items))
	for _, item := range doc.Items {
		if _, ok := seen[item.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateItemID, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
