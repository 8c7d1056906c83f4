package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parshjain/stockdesk/internal/config"
	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/mail"
	"github.com/parshjain/stockdesk/internal/models"
)

// Renderer produces the order sheet attachment.
type Renderer interface {
	RenderOrderSheet(order models.Order) ([]byte, error)
}

var (
	requiredOrderFields = []string{
		"userName", "accountCode", "stockName", "quantity",
		"rate", "buyOrSell", "currentDate", "orderTime",
	}
	emailShape       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	markupStripper   = strings.NewReplacer("<", "", ">", "")
	defaultOrderType = "Market"
)

// OrderService runs the order-confirmation pipeline: validate, sanitize,
// render, dispatch. Stages execute in order, each returning a classified
// error on failure; no I/O happens before validation passes. There is no
// retry loop — a failed request requires the client to resubmit.
type OrderService struct {
	mailer   mail.Sender
	renderer Renderer
	cfg      config.MailConfig
	now      func() time.Time
}

func NewOrderService(mailer mail.Sender, renderer Renderer, cfg config.MailConfig) *OrderService {
	return &OrderService{
		mailer:   mailer,
		renderer: renderer,
		cfg:      cfg,
		now:      time.Now,
	}
}

// PlaceOrder processes one order submission end to end.
func (s *OrderService) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	if err := ValidateOrderRequest(req); err != nil {
		return nil, err
	}

	order := s.sanitize(req)

	sheet, err := s.renderer.RenderOrderSheet(order)
	if err != nil {
		return nil, err
	}

	messageID, err := s.dispatch(order, sheet)
	if err != nil {
		return nil, err
	}

	zap.S().Infow("order confirmation sent",
		"orderId", order.OrderID,
		"client", order.UserName,
		"stock", order.StockName,
		"action", order.Action,
		"messageId", messageID,
	)

	return &models.OrderResult{
		Success:      true,
		MessageID:    messageID,
		Recipients:   s.cfg.Recipients,
		PDFGenerated: true,
		PDFSize:      len(sheet),
		OrderDetails: models.OrderDetails{
			OrderID:    order.OrderID,
			Client:     order.UserName,
			Stock:      order.StockName,
			Action:     order.Action,
			Quantity:   order.Quantity,
			Rate:       order.Rate,
			TotalValue: order.TotalValue,
		},
	}, nil
}

// ValidateOrderRequest applies the fail-fast validation rules. It runs
// before any network call and returns the first violation class found.
func ValidateOrderRequest(req models.OrderRequest) error {
	present := map[string]string{
		"userName":    req.UserName,
		"accountCode": req.AccountCode,
		"stockName":   req.StockName,
		"quantity":    req.Quantity,
		"rate":        req.Rate,
		"buyOrSell":   req.BuyOrSell,
		"currentDate": req.CurrentDate,
		"orderTime":   req.OrderTime,
	}

	var missing []string
	for _, field := range requiredOrderFields {
		if strings.TrimSpace(present[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperrors.MissingFields(missing)
	}

	action := strings.ToUpper(strings.TrimSpace(req.BuyOrSell))
	if action != "BUY" && action != "SELL" {
		return apperrors.NewValidationError(
			fmt.Sprintf("invalid transaction type %q: must be BUY or SELL", req.BuyOrSell))
	}

	if qty, err := strconv.ParseFloat(strings.TrimSpace(req.Quantity), 64); err != nil || qty <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("invalid quantity %q: must be a positive number", req.Quantity))
	}

	if rate, err := strconv.ParseFloat(strings.TrimSpace(req.Rate), 64); err != nil || rate <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("invalid rate %q: must be a positive number", req.Rate))
	}

	if req.UserEmail != "" && !emailShape.MatchString(req.UserEmail) {
		return apperrors.NewValidationError(
			fmt.Sprintf("invalid email format %q", req.UserEmail))
	}

	return nil
}

// sanitize normalizes a validated request. Angle brackets are stripped
// from free-text fields to keep markup out of the rendered email and PDF.
func (s *OrderService) sanitize(req models.OrderRequest) models.Order {
	qtyFloat, _ := strconv.ParseFloat(strings.TrimSpace(req.Quantity), 64)
	quantity := int(qtyFloat)
	rate, _ := strconv.ParseFloat(strings.TrimSpace(req.Rate), 64)

	orderType := strings.TrimSpace(req.OrderType)
	if orderType == "" {
		orderType = defaultOrderType
	}

	currentDate := strings.TrimSpace(req.CurrentDate)
	if currentDate == "" {
		currentDate = s.now().Format("02/01/2006")
	}
	orderTime := strings.TrimSpace(req.OrderTime)
	if orderTime == "" {
		orderTime = s.now().Format("03:04 PM")
	}

	return models.Order{
		OrderID:     uuid.New().String(),
		UserName:    cleanText(req.UserName),
		AccountCode: cleanText(req.AccountCode),
		StockName:   cleanText(req.StockName),
		Quantity:    quantity,
		Rate:        rate,
		TotalValue:  float64(quantity) * rate,
		Action:      strings.ToUpper(strings.TrimSpace(req.BuyOrSell)),
		StopLoss:    strings.TrimSpace(req.StopLoss),
		OrderType:   orderType,
		Remarks:     cleanText(req.Remarks),
		UserEmail:   strings.TrimSpace(req.UserEmail),
		CurrentDate: currentDate,
		OrderTime:   orderTime,
	}
}

// dispatch verifies the transport once and sends the confirmation to the
// configured recipients, cc-ing the submitter when an address was given.
func (s *OrderService) dispatch(order models.Order, sheet []byte) (string, error) {
	if s.cfg.User == "" || s.cfg.Password == "" {
		return "", &apperrors.ConfigurationError{
			Message: "email transport credentials are not configured",
		}
	}
	if len(s.cfg.Recipients) == 0 {
		return "", &apperrors.ConfigurationError{
			Message: "no order recipients configured",
		}
	}

	if err := s.mailer.Verify(); err != nil {
		return "", &apperrors.ConnectionError{Resource: "mail transport", Err: err}
	}

	msg := s.buildMessage(order, sheet)
	messageID, err := s.mailer.Send(msg)
	if err != nil {
		return "", &apperrors.ConnectionError{Resource: "mail transport", Err: err}
	}
	return messageID, nil
}

func (s *OrderService) buildMessage(order models.Order, sheet []byte) *mail.Message {
	var cc []string
	if order.UserEmail != "" {
		cc = []string{order.UserEmail}
	}

	text := fmt.Sprintf(
		"Hello,\n\nYour %s order for %s has been placed successfully.\n\n"+
			"Quantity: %d\nRate: %.2f\nTotal Value: %.2f\nOrder Type: %s\n\n"+
			"The signed order sheet is attached.\n",
		order.Action, order.StockName, order.Quantity, order.Rate,
		order.TotalValue, order.OrderType)

	html := fmt.Sprintf(`<html><body>
<div style="text-align: center;">
  <h2>Order Confirmation</h2>
  <p>Your %s order for <b>%s</b> has been placed successfully.</p>
  <table align="center" cellpadding="6" border="1" style="border-collapse: collapse;">
    <tr><th>Client</th><th>UCC</th><th>Qty</th><th>Rate</th><th>Total</th></tr>
    <tr><td>%s</td><td>%s</td><td>%d</td><td>%.2f</td><td>%.2f</td></tr>
  </table>
  <p>The order sheet is attached as a PDF.</p>
</div>
</body></html>`,
		order.Action, order.StockName, order.UserName, order.AccountCode,
		order.Quantity, order.Rate, order.TotalValue)

	return &mail.Message{
		To:             s.cfg.Recipients,
		Cc:             cc,
		Subject:        "Order Confirmation: " + order.StockName,
		Text:           text,
		HTML:           html,
		AttachmentName: fmt.Sprintf("order-%s.pdf", order.OrderID),
		Attachment:     sheet,
		Headers: map[string]string{
			"X-Order-ID":     order.OrderID,
			"X-Order-Client": order.UserName,
			"X-Order-Stock":  order.StockName,
			"X-Order-Action": order.Action,
		},
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(markupStripper.Replace(s))
}
