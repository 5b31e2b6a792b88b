package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"time"

	"gigstage/pkg/logger"
)

// PaymentGatewayRequest represents a checkout request
type PaymentGatewayRequest struct {
	OrderID         string
	Amount          float64
	Description     string
	CustomerDetails CustomerDetails
}

// CustomerDetails represents customer information
type CustomerDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// PaymentGatewayResponse represents a checkout/status response
type PaymentGatewayResponse struct {
	Token       string
	RedirectURL string
	OrderID     string
	Status      string // pending, success, failure
}

// RecurringRequest starts a recurring subscription charge
type RecurringRequest struct {
	Name     string
	Amount   float64
	Interval string // monthly, annual
	Customer CustomerDetails
}

// RecurringResponse mirrors the gateway's subscription object
type RecurringResponse struct {
	SubscriptionID string
	Status         string
	NextBillingAt  time.Time
}

// PaymentGatewayService is the external payment collaborator: collects
// deposits and balances, issues refunds, and models recurring billing.
type PaymentGatewayService interface {
	CreatePayment(ctx context.Context, req PaymentGatewayRequest) (*PaymentGatewayResponse, error)
	GetPaymentStatus(ctx context.Context, orderID string) (*PaymentGatewayResponse, error)
	RefundPayment(ctx context.Context, orderID string, amount float64, reason string) error
	CreateSubscription(ctx context.Context, req RecurringRequest) (*RecurringResponse, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

// SimulatedPaymentService is a local stand-in used in development and
// tests; every operation succeeds without leaving the process.
type SimulatedPaymentService struct {
	serverKey string
}

func NewSimulatedPaymentService(serverKey string) *SimulatedPaymentService {
	return &SimulatedPaymentService{serverKey: serverKey}
}

func (s *SimulatedPaymentService) CreatePayment(ctx context.Context, req PaymentGatewayRequest) (*PaymentGatewayResponse, error) {
	logger.Debug("Simulated payment created for order %s, amount %.2f", req.OrderID, req.Amount)

	return &PaymentGatewayResponse{
		Token:       fmt.Sprintf("sim-token-%s-%d", req.OrderID, time.Now().Unix()),
		RedirectURL: fmt.Sprintf("https://pay.example.test/%s", req.OrderID),
		OrderID:     req.OrderID,
		Status:      "pending",
	}, nil
}

func (s *SimulatedPaymentService) GetPaymentStatus(ctx context.Context, orderID string) (*PaymentGatewayResponse, error) {
	return &PaymentGatewayResponse{OrderID: orderID, Status: "pending"}, nil
}

func (s *SimulatedPaymentService) RefundPayment(ctx context.Context, orderID string, amount float64, reason string) error {
	logger.Debug("Simulated refund for order %s: %.2f (%s)", orderID, amount, reason)
	return nil
}

func (s *SimulatedPaymentService) CreateSubscription(ctx context.Context, req RecurringRequest) (*RecurringResponse, error) {
	next := time.Now().AddDate(0, 1, 0)
	if req.Interval == "annual" {
		next = time.Now().AddDate(1, 0, 0)
	}

	return &RecurringResponse{
		SubscriptionID: fmt.Sprintf("sim-sub-%d", time.Now().UnixNano()),
		Status:         "active",
		NextBillingAt:  next,
	}, nil
}

func (s *SimulatedPaymentService) CancelSubscription(ctx context.Context, subscriptionID string) error {
	logger.Debug("Simulated subscription cancel: %s", subscriptionID)
	return nil
}

// VerifySignature follows the gateway scheme:
// sha512(order_id + status_code + gross_amount + server_key).
func (s *SimulatedPaymentService) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return Signature(orderID, statusCode, grossAmount, s.serverKey) == signature
}

// Signature computes the webhook signature for the given fields.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
