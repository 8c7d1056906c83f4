package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/models"
	"github.com/parshjain/stockdesk/internal/websocket"
)

// OrderPlacer runs the order-confirmation pipeline.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error)
}

type OrderHandler struct {
	orders      OrderPlacer
	wsHub       *websocket.Hub
	environment string
}

// NewOrderHandler creates an OrderHandler. wsHub may be nil, which
// disables the order event broadcast.
func NewOrderHandler(orders OrderPlacer, wsHub *websocket.Hub, environment string) *OrderHandler {
	return &OrderHandler{
		orders:      orders,
		wsHub:       wsHub,
		environment: environment,
	}
}

func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/orders", h.PlaceOrder).Methods("POST")
}

// PlaceOrder accepts an order form, runs the confirmation pipeline and
// reports the dispatched confirmation.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.environment, apperrors.NewValidationError(
			"invalid request body: order data is required"))
		return
	}

	zap.S().Infow("order received",
		"client", req.UserName,
		"stock", req.StockName,
		"action", req.BuyOrSell,
		"quantity", req.Quantity,
		"rate", req.Rate,
	)

	result, err := h.orders.PlaceOrder(r.Context(), req)
	if err != nil {
		zap.S().Warnw("order rejected", "client", req.UserName, "error", err)
		writeError(w, h.environment, err)
		return
	}

	if h.wsHub != nil {
		h.wsHub.Broadcast(models.Message{
			Type:    "order_placed",
			Content: result.OrderDetails,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Order placed successfully and email sent!",
		"orderDetails": result.OrderDetails,
		"messageId":    result.MessageID,
		"timestamp":    timestamp(),
	})
}
