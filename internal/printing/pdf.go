// Package printing renders an invoice document as an A4 PDF.
//
// The output has two pages with the same content, labelled (ORIGINAL) and (COPY).
// All figures come from the invoice package; nothing is computed here.
package printing

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"invoicer/internal/invoice"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
)

// Page labels, in print order
var Labels = []string{"(ORIGINAL)", "(COPY)"}

const (
	margin   = 10.0
	rowH     = 6.0
	fontBody = 9.0
)

// item table columns: width in mm, header, alignment
var columns = []struct {
	w     float64
	title string
	align string
}{
	{10, "S.No", "C"},
	{58, "Description", "L"},
	{18, "HSN", "C"},
	{18, "Qty", "R"},
	{12, "Unit", "C"},
	{20, "Rate", "R"},
	{22, "Amount", "R"},
	{12, "Tax%", "R"},
	{20, "Total", "R"},
}

// Renderer writes invoice PDFs
type Renderer struct {
	log zerolog.Logger
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{log: logger.WithComponent("printing")}
}

// Render writes the two page PDF of doc to w
func (r *Renderer) Render(w io.Writer, doc models.InvoiceDocument, mode models.TaxMode) error {
	const op = "Render"

	pdf := r.build(doc, mode)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	r.log.Debug().
		Str("invoice_number", doc.Details.InvoiceNumber).
		Str("tax_mode", string(mode)).
		Int("items", len(doc.Items)).
		Msg("Invoice rendered")
	return nil
}

// RenderFile writes the PDF to path, creating the parent directory if needed
func (r *Renderer) RenderFile(path string, doc models.InvoiceDocument, mode models.TaxMode) error {
	const op = "RenderFile"

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%s: create output dir: %w", op, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.Render(f, doc, mode); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Renderer) build(doc models.InvoiceDocument, mode models.TaxMode) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	totals := invoice.Compute(doc.Items, mode)
	for _, label := range Labels {
		pdf.AddPage()
		p := page{pdf: pdf, tr: tr}
		p.header(doc, mode, label)
		p.parties(doc)
		p.items(doc.Items, totals)
		p.taxSummary(totals)
		p.footer(doc, totals)
	}
	return pdf
}

type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p page) contentWidth() float64 {
	w, _ := p.pdf.GetPageSize()
	return w - 2*margin
}

func (p page) header(doc models.InvoiceDocument, mode models.TaxMode, label string) {
	pdf := p.pdf
	w := p.contentWidth()

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(w, 4, label, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(w/2, 5, p.tr("GSTIN: "+doc.Sender.TaxID), "", 0, "L", false, 0, "")
	if doc.Sender.Phone != "" {
		pdf.CellFormat(w/2, 5, p.tr("Ph: "+doc.Sender.Phone), "", 0, "R", false, 0, "")
	}
	pdf.Ln(6)

	title := doc.Sender.Title
	if title == "" {
		title = doc.Sender.Name
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(w, 9, p.tr(title), "", 1, "C", false, 0, "")
	if doc.Sender.SubTitle != "" {
		pdf.SetFont("Helvetica", "", fontBody)
		pdf.CellFormat(w, 5, p.tr(doc.Sender.SubTitle), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", fontBody)
	for _, line := range splitLines(doc.Sender.Address) {
		pdf.CellFormat(w, 4.5, p.tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	heading := "INVOICE"
	if mode == models.TaxModeIGST {
		heading = "IGST INVOICE"
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 7, heading, "TB", 1, "C", false, 0, "")
}

func (p page) parties(doc models.InvoiceDocument) {
	pdf := p.pdf
	w := p.contentWidth()
	left := w * 0.55
	right := w - left
	top := pdf.GetY()

	pdf.SetFont("Helvetica", "B", fontBody)
	pdf.CellFormat(left, 5, "To:", "", 2, "L", false, 0, "")
	pdf.CellFormat(left, 5, p.tr(doc.Receiver.Name), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontBody)
	for _, line := range splitLines(doc.Receiver.Address) {
		pdf.CellFormat(left, 4.5, p.tr(line), "", 2, "L", false, 0, "")
	}
	if doc.Receiver.TaxID != "" {
		pdf.CellFormat(left, 4.5, p.tr("GSTIN : "+doc.Receiver.TaxID), "", 2, "L", false, 0, "")
	}
	leftBottom := pdf.GetY()

	pdf.SetXY(margin+left, top)
	d := doc.Details
	rows := [][2]string{
		{"Invoice No", d.InvoiceNumber},
		{"Date", d.Date},
		{"Time", d.Time},
		{"Payment", d.PaymentTerms},
		{"Vehicle No", d.VehicleNumber},
		{"PO No / Date", joinNonEmpty(d.PurchaseOrderNumber, d.PurchaseOrderDate)},
		{"Dispatch", d.DispatchMethod},
		{"LR No / Date", joinNonEmpty(d.LorryReceiptNumber, d.LorryReceiptDate)},
		{"Freight", d.FreightTerms},
		{"DC No / Date", joinNonEmpty(d.DeliveryChallanNumber, d.DeliveryChallanDate)},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetX(margin + left)
		pdf.SetFont("Helvetica", "", fontBody)
		pdf.CellFormat(right*0.4, 4.5, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", fontBody)
		pdf.CellFormat(right*0.6, 4.5, p.tr(": "+row[1]), "", 1, "L", false, 0, "")
	}

	if pdf.GetY() < leftBottom {
		pdf.SetY(leftBottom)
	}
	pdf.Ln(3)
}

func (p page) items(items []models.LineItem, totals invoice.Totals) {
	pdf := p.pdf

	pdf.SetFont("Helvetica", "B", fontBody)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.w, rowH, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", fontBody)
	for i, item := range items {
		values := []string{
			fmt.Sprintf("%d", i+1),
			item.Description,
			item.HSNCode,
			invoice.FormatQuantity(item.Quantity),
			item.Unit,
			invoice.FormatMoney(item.Rate),
			invoice.FormatMoney(invoice.ItemAmount(item)),
			item.TaxRatePercent.String(),
			invoice.FormatMoney(invoice.ItemTotal(item)),
		}
		for j, c := range columns {
			pdf.CellFormat(c.w, rowH, p.tr(fit(pdf, values[j], c.w)), "LR", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", fontBody)
	pdf.CellFormat(columns[0].w+columns[1].w+columns[2].w, rowH, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[3].w, rowH, invoice.FormatQuantity(totals.TotalQuantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[4].w+columns[5].w, rowH, "", "1", 0, "", false, 0, "")
	pdf.CellFormat(columns[6].w, rowH, invoice.FormatMoney(totals.SubTotal), "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[7].w, rowH, "", "1", 0, "", false, 0, "")
	pdf.CellFormat(columns[8].w, rowH, invoice.FormatMoney(totals.TotalAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(3)
}

func (p page) taxSummary(totals invoice.Totals) {
	pdf := p.pdf
	w := p.contentWidth()

	var headers, values []string
	if totals.Split.Mode == models.TaxModeIGST {
		headers = []string{"Taxable Value", "IGST", "Total Tax"}
		values = []string{
			invoice.FormatMoney(totals.SubTotal),
			invoice.FormatMoney(totals.Split.IGST),
			invoice.FormatMoney(totals.TotalTax),
		}
	} else {
		headers = []string{"Taxable Value", "CGST", "SGST", "Total Tax"}
		values = []string{
			invoice.FormatMoney(totals.SubTotal),
			invoice.FormatMoney(totals.Split.CGST),
			invoice.FormatMoney(totals.Split.SGST),
			invoice.FormatMoney(totals.TotalTax),
		}
	}

	cw := w / float64(len(headers))
	pdf.SetFont("Helvetica", "B", fontBody)
	for _, h := range headers {
		pdf.CellFormat(cw, rowH, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", fontBody)
	for _, v := range values {
		pdf.CellFormat(cw, rowH, v, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(2)
}

func (p page) footer(doc models.InvoiceDocument, totals invoice.Totals) {
	pdf := p.pdf
	w := p.contentWidth()
	labelW := w - 40

	pdf.SetFont("Helvetica", "", fontBody)
	pdf.CellFormat(labelW, 5, "Round Off", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 5, invoice.FormatMoney(totals.RoundOff), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "Net Amount", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, invoice.FormatMoney(totals.FinalAmount), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", fontBody)
	pdf.MultiCell(w, 5, p.tr("Rupees "+totals.AmountInWords), "", "L", false)

	if doc.Details.TermsAndConditions != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 7)
		pdf.MultiCell(w, 3.5, p.tr(doc.Details.TermsAndConditions), "", "L", false)
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", fontBody)
	pdf.CellFormat(w, 5, p.tr("For "+doc.Sender.Name), "", 1, "R", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", fontBody)
	pdf.CellFormat(w, 5, p.tr(doc.Details.Signatory), "", 1, "R", false, 0, "")
}

// fit truncates s so that it fits in a cell of width w
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const pad = 2.0
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"..") > w-pad {
		r = r[:len(r)-1]
	}
	return string(r) + ".."
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " / ")
}
