package models

// OrderRequest is the client-submitted order form. It lives only for the
// duration of validation and email dispatch and is never persisted.
// Quantity and rate arrive as strings because the form submits them that
// way; the pipeline coerces them to numbers.
type OrderRequest struct {
	UserName    string `json:"userName"`
	AccountCode string `json:"accountCode"`
	StockName   string `json:"stockName"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	BuyOrSell   string `json:"buyOrSell"`
	StopLoss    string `json:"stopLoss,omitempty"`
	OrderType   string `json:"orderType,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
	UserEmail   string `json:"userEmail,omitempty"`
	CurrentDate string `json:"currentDate"`
	OrderTime   string `json:"orderTime"`
}

// Order is the validated, sanitized form of an OrderRequest.
type Order struct {
	OrderID     string
	UserName    string
	AccountCode string
	StockName   string
	Quantity    int
	Rate        float64
	TotalValue  float64
	Action      string
	StopLoss    string
	OrderType   string
	Remarks     string
	UserEmail   string
	CurrentDate string
	OrderTime   string
}

// OrderDetails is the summary echoed back to the client and broadcast to
// websocket subscribers.
type OrderDetails struct {
	OrderID    string  `json:"orderId"`
	Client     string  `json:"client"`
	Stock      string  `json:"stock"`
	Action     string  `json:"action"`
	Quantity   int     `json:"quantity"`
	Rate       float64 `json:"rate"`
	TotalValue float64 `json:"totalValue"`
}

// OrderResult is the outcome of a successfully dispatched order.
type OrderResult struct {
	Success      bool         `json:"success"`
	MessageID    string       `json:"messageId"`
	Recipients   []string     `json:"recipients"`
	PDFGenerated bool         `json:"pdfGenerated"`
	PDFSize      int          `json:"pdfSize"`
	OrderDetails OrderDetails `json:"orderDetails"`
}
