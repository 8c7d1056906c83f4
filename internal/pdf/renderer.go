// Package pdf renders order confirmation sheets into in-memory buffers.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/models"
)

const (
	letterheadName = "Jain Investments & Securities"
	letterheadLine = "Equity Order Confirmation Sheet"
)

// Renderer produces order sheet PDFs. Rendering must succeed for any
// validated order; when the styled layout accumulates a drawing error the
// renderer retries once with plain cells before giving up.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderOrderSheet renders the one-row order summary for the given order.
func (r *Renderer) RenderOrderSheet(order models.Order) ([]byte, error) {
	out, err := r.render(order, true)
	if err == nil {
		return out, nil
	}

	zap.S().Warnw("styled order sheet failed, retrying with plain layout",
		"orderId", order.OrderID, "error", err)

	out, err = r.render(order, false)
	if err != nil {
		return nil, &apperrors.RenderError{Err: err}
	}
	return out, nil
}

func (r *Renderer) render(order models.Order, styled bool) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Order Confirmation "+order.OrderID, false)
	doc.AddPage()

	r.letterhead(doc, styled)
	r.clientBlock(doc, order)
	r.transactionTable(doc, order, styled)
	r.signatureBlock(doc)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) letterhead(doc *gofpdf.Fpdf, styled bool) {
	doc.SetFont("Helvetica", "B", 18)
	if styled {
		doc.SetTextColor(23, 54, 93)
	}
	doc.CellFormat(0, 10, letterheadName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 6, letterheadLine, "", 1, "C", false, 0, "")

	doc.Ln(2)
	left, _, right, _ := doc.GetMargins()
	pageWidth, _ := doc.GetPageSize()
	y := doc.GetY()
	doc.Line(left, y, pageWidth-right, y)
	doc.Ln(4)
}

func (r *Renderer) clientBlock(doc *gofpdf.Fpdf, order models.Order) {
	rows := [][2]string{
		{"Order ID", order.OrderID},
		{"Client Name", order.UserName},
		{"UCC / Account Code", order.AccountCode},
		{"Order Date", order.CurrentDate},
		{"Order Time", order.OrderTime},
	}

	doc.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(45, 6, row[0], "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	doc.Ln(4)
}

func (r *Renderer) transactionTable(doc *gofpdf.Fpdf, order models.Order, styled bool) {
	headers := []string{"Stock", "Action", "Qty", "Rate", "Stop Loss", "Type", "Total Value"}
	widths := []float64{48, 18, 16, 24, 24, 22, 38}

	doc.SetFont("Helvetica", "B", 10)
	if styled {
		doc.SetFillColor(23, 54, 93)
		doc.SetTextColor(255, 255, 255)
		for i, h := range headers {
			doc.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
		}
	} else {
		for i, h := range headers {
			doc.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
		}
	}
	doc.Ln(-1)

	stopLoss := order.StopLoss
	if stopLoss == "" {
		stopLoss = "-"
	}

	cells := []string{
		order.StockName,
		order.Action,
		fmt.Sprintf("%d", order.Quantity),
		fmt.Sprintf("%.2f", order.Rate),
		stopLoss,
		order.OrderType,
		fmt.Sprintf("%.2f", order.TotalValue),
	}

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	for i, c := range cells {
		doc.CellFormat(widths[i], 8, c, "1", 0, "C", false, 0, "")
	}
	doc.Ln(-1)

	if order.Remarks != "" {
		doc.Ln(2)
		doc.SetFont("Helvetica", "I", 9)
		doc.MultiCell(0, 5, "Remarks: "+order.Remarks, "", "L", false)
	}
	doc.Ln(6)
}

func (r *Renderer) signatureBlock(doc *gofpdf.Fpdf) {
	doc.Ln(14)
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(80, 6, "_______________________", "", 0, "L", false, 0, "")
	doc.CellFormat(0, 6, "_______________________", "", 1, "R", false, 0, "")
	doc.CellFormat(80, 6, "Client Signature", "", 0, "L", false, 0, "")
	doc.CellFormat(0, 6, "Authorised Signatory", "", 1, "R", false, 0, "")

	doc.Ln(8)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(120, 120, 120)
	doc.MultiCell(0, 4,
		"This order sheet is generated for record keeping. Orders are executed subject to "+
			"exchange confirmation and applicable margin requirements.", "", "C", false)
}
