package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parshjain/stockdesk/internal/config"
	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/mail"
	"github.com/parshjain/stockdesk/internal/models"
)

type spyMailer struct {
	verifyCalls int
	sendCalls   int
	verifyErr   error
	sendErr     error
	lastMessage *mail.Message
}

func (m *spyMailer) Verify() error {
	m.verifyCalls++
	return m.verifyErr
}

func (m *spyMailer) Send(msg *mail.Message) (string, error) {
	m.sendCalls++
	m.lastMessage = msg
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return "<test-message@stockdesk>", nil
}

type stubRenderer struct {
	renderCalls int
	err         error
}

func (r *stubRenderer) RenderOrderSheet(order models.Order) ([]byte, error) {
	r.renderCalls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		Host:       "smtp.example.com",
		Port:       587,
		User:       "orders@example.com",
		Password:   "app-password",
		From:       "orders@example.com",
		Recipients: []string{"dealing@example.com", "backoffice@example.com"},
	}
}

func validRequest() models.OrderRequest {
	return models.OrderRequest{
		UserName:    "A. Sharma",
		AccountCode: "UCC123",
		StockName:   "RELIANCE",
		Quantity:    "10",
		Rate:        "2500",
		BuyOrSell:   "buy",
		CurrentDate: "01/01/2025",
		OrderTime:   "10:00 AM",
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	mailer := &spyMailer{}
	renderer := &stubRenderer{}
	service := NewOrderService(mailer, renderer, testMailConfig())

	result, err := service.PlaceOrder(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "<test-message@stockdesk>", result.MessageID)
	assert.Equal(t, []string{"dealing@example.com", "backoffice@example.com"}, result.Recipients)
	assert.True(t, result.PDFGenerated)
	assert.Equal(t, len("%PDF-1.4 stub"), result.PDFSize)

	details := result.OrderDetails
	assert.Equal(t, "A. Sharma", details.Client)
	assert.Equal(t, "RELIANCE", details.Stock)
	assert.Equal(t, "BUY", details.Action)
	assert.Equal(t, 10, details.Quantity)
	assert.Equal(t, 2500.0, details.Rate)
	assert.Equal(t, 25000.0, details.TotalValue)
	assert.NotEmpty(t, details.OrderID)

	assert.Equal(t, 1, mailer.verifyCalls)
	assert.Equal(t, 1, mailer.sendCalls)
	assert.Equal(t, 1, renderer.renderCalls)
}

func TestPlaceOrderTracingHeaders(t *testing.T) {
	mailer := &spyMailer{}
	service := NewOrderService(mailer, &stubRenderer{}, testMailConfig())

	result, err := service.PlaceOrder(context.Background(), validRequest())
	require.NoError(t, err)

	msg := mailer.lastMessage
	require.NotNil(t, msg)
	assert.Equal(t, result.OrderDetails.OrderID, msg.Headers["X-Order-ID"])
	assert.Equal(t, "A. Sharma", msg.Headers["X-Order-Client"])
	assert.Equal(t, "RELIANCE", msg.Headers["X-Order-Stock"])
	assert.Equal(t, "BUY", msg.Headers["X-Order-Action"])
	assert.Equal(t, "Order Confirmation: RELIANCE", msg.Subject)
	assert.Empty(t, msg.Cc)
	assert.NotEmpty(t, msg.Attachment)
}

func TestPlaceOrderCcsSubmitter(t *testing.T) {
	mailer := &spyMailer{}
	service := NewOrderService(mailer, &stubRenderer{}, testMailConfig())

	req := validRequest()
	req.UserEmail = "a.sharma@example.com"
	_, err := service.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.sharma@example.com"}, mailer.lastMessage.Cc)
}

func TestPlaceOrderMissingFieldsNamedExactly(t *testing.T) {
	mailer := &spyMailer{}
	renderer := &stubRenderer{}
	service := NewOrderService(mailer, renderer, testMailConfig())

	req := validRequest()
	req.AccountCode = ""
	req.Rate = "   "

	_, err := service.PlaceOrder(context.Background(), req)
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"accountCode", "rate"}, validationErr.Fields)

	// Validation happens before any network call.
	assert.Zero(t, mailer.verifyCalls)
	assert.Zero(t, mailer.sendCalls)
	assert.Zero(t, renderer.renderCalls)
}

func TestPlaceOrderTransactionType(t *testing.T) {
	for _, invalid := range []string{"hold", "BUYY", "short", "b"} {
		req := validRequest()
		req.BuyOrSell = invalid

		err := ValidateOrderRequest(req)
		require.Error(t, err, "value %q", invalid)
		assert.Contains(t, err.Error(), "transaction type")
	}

	for _, valid := range []string{"BUY", "Buy", "buy", "SELL", "Sell", "sell"} {
		req := validRequest()
		req.BuyOrSell = valid
		assert.NoError(t, ValidateOrderRequest(req), "value %q", valid)
	}
}

func TestPlaceOrderQuantityAndRate(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*models.OrderRequest)
		contains string
	}{
		{"negative quantity", func(r *models.OrderRequest) { r.Quantity = "-5" }, "quantity"},
		{"zero quantity", func(r *models.OrderRequest) { r.Quantity = "0" }, "quantity"},
		{"non-numeric quantity", func(r *models.OrderRequest) { r.Quantity = "ten" }, "quantity"},
		{"negative rate", func(r *models.OrderRequest) { r.Rate = "-2500" }, "rate"},
		{"non-numeric rate", func(r *models.OrderRequest) { r.Rate = "cheap" }, "rate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			err := ValidateOrderRequest(req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestPlaceOrderEmailShape(t *testing.T) {
	req := validRequest()
	req.UserEmail = "not-an-email"

	err := ValidateOrderRequest(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestPlaceOrderSanitizesMarkup(t *testing.T) {
	mailer := &spyMailer{}
	service := NewOrderService(mailer, &stubRenderer{}, testMailConfig())

	req := validRequest()
	req.StockName = "<b>RELIANCE</b>"
	req.UserName = "A. <i>Sharma</i>"
	req.Remarks = "<img src=x> deliver fast"

	result, err := service.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.NotContains(t, result.OrderDetails.Stock, "<")
	assert.NotContains(t, result.OrderDetails.Stock, ">")
	assert.NotContains(t, result.OrderDetails.Client, "<")
	assert.NotContains(t, mailer.lastMessage.HTML, "<img src=x>")
}

func TestPlaceOrderDefaultsOrderType(t *testing.T) {
	mailer := &spyMailer{}
	service := NewOrderService(mailer, &stubRenderer{}, testMailConfig())

	req := validRequest()
	req.OrderType = ""
	_, err := service.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, mailer.lastMessage.Text, "Order Type: Market")
}

func TestPlaceOrderConfigurationError(t *testing.T) {
	mailer := &spyMailer{}
	cfg := testMailConfig()
	cfg.Password = ""
	service := NewOrderService(mailer, &stubRenderer{}, cfg)

	_, err := service.PlaceOrder(context.Background(), validRequest())
	require.Error(t, err)

	var configErr *apperrors.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.Zero(t, mailer.verifyCalls)
	assert.Zero(t, mailer.sendCalls)
}

func TestPlaceOrderNoRecipientsConfigured(t *testing.T) {
	cfg := testMailConfig()
	cfg.Recipients = nil
	service := NewOrderService(&spyMailer{}, &stubRenderer{}, cfg)

	_, err := service.PlaceOrder(context.Background(), validRequest())

	var configErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestPlaceOrderVerifyFailure(t *testing.T) {
	mailer := &spyMailer{verifyErr: errors.New("535 bad credentials")}
	service := NewOrderService(mailer, &stubRenderer{}, testMailConfig())

	_, err := service.PlaceOrder(context.Background(), validRequest())
	require.Error(t, err)

	var connErr *apperrors.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "mail transport", connErr.Resource)
	assert.Zero(t, mailer.sendCalls)
}

func TestPlaceOrderSendFailure(t *testing.T) {
	mailer := &spyMailer{sendErr: errors.New("connection reset by peer")}
	service := NewOrderService(mailer, &stubRenderer{}, testMailConfig())

	_, err := service.PlaceOrder(context.Background(), validRequest())

	var connErr *apperrors.ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestPlaceOrderRenderFailure(t *testing.T) {
	mailer := &spyMailer{}
	renderer := &stubRenderer{err: &apperrors.RenderError{Err: errors.New("font missing")}}
	service := NewOrderService(mailer, renderer, testMailConfig())

	_, err := service.PlaceOrder(context.Background(), validRequest())
	require.Error(t, err)

	var renderErr *apperrors.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.Zero(t, mailer.verifyCalls)
	assert.Zero(t, mailer.sendCalls)
}
