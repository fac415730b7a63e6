package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/filebridge/filebridge/pkg/logging"
	razorpay "github.com/razorpay/razorpay-go"
)

// ErrNotConfigured is returned when payment credentials are absent. The
// message doubles as the public error string, so no network call is ever
// attempted on an unconfigured deployment.
var ErrNotConfigured = errors.New("Razorpay not configured")

// Service wraps the payment gateway client. Credentials are fixed at
// startup and never re-read per request.
type Service struct {
	client *razorpay.Client
	secret string
	logger *logging.Logger
}

// New builds the service. With empty credentials the service stays in a
// degraded mode where CreateOrder fails fast with ErrNotConfigured.
func New(keyID, secret string, logger *logging.Logger) *Service {
	s := &Service{secret: secret, logger: logger}
	if keyID != "" && secret != "" {
		s.client = razorpay.NewClient(keyID, secret)
	}
	return s
}

// Configured reports whether the gateway client is usable.
func (s *Service) Configured() bool {
	return s.client != nil
}

// CreateOrder creates a gateway order for the given amount in minor
// currency units and returns the raw order object for relay to the client.
func (s *Service) CreateOrder(amount int64, currency, receipt string) (map[string]interface{}, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if amount < 1 {
		return nil, fmt.Errorf("invalid amount %d", amount)
	}
	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := s.client.Order.Create(data, nil)
	if err != nil {
		s.logger.Error("order creation failed", "error", err)
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// VerifySignature checks a payment callback signature: hex HMAC-SHA256
// over "orderID|paymentID" under the configured secret. Any mismatch,
// including case or whitespace differences, yields false; it never panics.
func (s *Service) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, s.secret)
}

// VerifySignature is the credential-explicit form used by tests and by
// the service method above.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
