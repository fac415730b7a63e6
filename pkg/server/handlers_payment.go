package server

import (
	"errors"
	"net/http"

	"github.com/filebridge/filebridge/pkg/payments"
	"github.com/gin-gonic/gin"
)

// handleCreateOrder creates a payment-gateway order. Without configured
// credentials it degrades gracefully and never touches the network.
func (s *Server) handleCreateOrder(c *gin.Context) {
	var req struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing amount")
		return
	}

	order, err := s.payments.CreateOrder(req.Amount, req.Currency, req.Receipt)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": payments.ErrNotConfigured.Error()})
			return
		}
		s.logger.Error("order creation failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "order creation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// handleVerifyPayment checks a payment callback signature. Mismatches
// report verified:false; this endpoint never errors on bad input.
func (s *Server) handleVerifyPayment(c *gin.Context) {
	var req struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
		Signature string `json:"signature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"verified": false})
		return
	}

	verified := s.payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature)
	c.JSON(http.StatusOK, gin.H{"verified": verified})
}
