package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gigstage/pkg/logger"
)

// MidtransPaymentService talks to the Midtrans Snap and Core APIs over
// plain HTTP.
type MidtransPaymentService struct {
	serverKey    string
	clientKey    string
	isProduction bool
	snapURL      string
	coreURL      string
	client       *http.Client
}

func NewMidtransPaymentService(serverKey, clientKey string, isProduction bool) *MidtransPaymentService {
	snapURL := "https://app.sandbox.midtrans.com/snap/v1"
	coreURL := "https://api.sandbox.midtrans.com"
	if isProduction {
		snapURL = "https://app.midtrans.com/snap/v1"
		coreURL = "https://api.midtrans.com"
	}

	return &MidtransPaymentService{
		serverKey:    serverKey,
		clientKey:    clientKey,
		isProduction: isProduction,
		snapURL:      snapURL,
		coreURL:      coreURL,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

type midtransSnapRequest struct {
	TransactionDetails midtransTransactionDetails `json:"transaction_details"`
	CustomerDetails    midtransCustomerDetails    `json:"customer_details"`
	ItemDetails        []midtransItemDetail       `json:"item_details"`
}

type midtransTransactionDetails struct {
	OrderID     string  `json:"order_id"`
	GrossAmount float64 `json:"gross_amount"`
}

type midtransCustomerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type midtransItemDetail struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
	Name     string  `json:"name"`
}

type midtransSnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func (mps *MidtransPaymentService) CreatePayment(ctx context.Context, req PaymentGatewayRequest) (*PaymentGatewayResponse, error) {
	snapReq := midtransSnapRequest{
		TransactionDetails: midtransTransactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: req.Amount,
		},
		CustomerDetails: midtransCustomerDetails{
			FirstName: req.CustomerDetails.FirstName,
			LastName:  req.CustomerDetails.LastName,
			Email:     req.CustomerDetails.Email,
			Phone:     req.CustomerDetails.Phone,
		},
		ItemDetails: []midtransItemDetail{
			{
				ID:       req.OrderID,
				Price:    req.Amount,
				Quantity: 1,
				Name:     req.Description,
			},
		},
	}

	body, err := mps.post(ctx, mps.snapURL+"/transactions", snapReq, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var snapResp midtransSnapResponse
	if err := json.Unmarshal(body, &snapResp); err != nil {
		return nil, fmt.Errorf("failed to parse snap response: %w", err)
	}

	logger.Info("Midtrans payment created for order %s", req.OrderID)

	return &PaymentGatewayResponse{
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
		OrderID:     req.OrderID,
		Status:      "pending",
	}, nil
}

func (mps *MidtransPaymentService) GetPaymentStatus(ctx context.Context, orderID string) (*PaymentGatewayResponse, error) {
	body, err := mps.get(ctx, fmt.Sprintf("%s/v2/%s/status", mps.coreURL, orderID))
	if err != nil {
		return nil, err
	}

	var statusResp map[string]interface{}
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}

	transactionStatus, _ := statusResp["transaction_status"].(string)

	return &PaymentGatewayResponse{
		OrderID: orderID,
		Status:  mapTransactionStatus(transactionStatus),
	}, nil
}

func (mps *MidtransPaymentService) RefundPayment(ctx context.Context, orderID string, amount float64, reason string) error {
	refundReq := map[string]interface{}{
		"refund_key": fmt.Sprintf("refund-%s-%d", orderID, time.Now().Unix()),
		"amount":     amount,
		"reason":     reason,
	}

	_, err := mps.post(ctx, fmt.Sprintf("%s/v2/%s/refund", mps.coreURL, orderID), refundReq, http.StatusOK)
	if err != nil {
		return err
	}

	logger.Info("Midtrans refund issued for order %s: %.2f", orderID, amount)
	return nil
}

func (mps *MidtransPaymentService) CreateSubscription(ctx context.Context, req RecurringRequest) (*RecurringResponse, error) {
	interval := "month"
	if req.Interval == "annual" {
		interval = "year"
	}

	subReq := map[string]interface{}{
		"name":         req.Name,
		"amount":       fmt.Sprintf("%.0f", req.Amount),
		"currency":     "USD",
		"payment_type": "credit_card",
		"schedule": map[string]interface{}{
			"interval":      1,
			"interval_unit": interval,
		},
		"customer_details": map[string]interface{}{
			"first_name": req.Customer.FirstName,
			"last_name":  req.Customer.LastName,
			"email":      req.Customer.Email,
			"phone":      req.Customer.Phone,
		},
	}

	body, err := mps.post(ctx, mps.coreURL+"/v1/subscriptions", subReq, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var subResp struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Schedule struct {
			NextExecutionAt string `json:"next_execution_at"`
		} `json:"schedule"`
	}
	if err := json.Unmarshal(body, &subResp); err != nil {
		return nil, fmt.Errorf("failed to parse subscription response: %w", err)
	}

	next, err := time.Parse("2006-01-02 15:04:05", subResp.Schedule.NextExecutionAt)
	if err != nil {
		next = time.Now().AddDate(0, 1, 0)
	}

	return &RecurringResponse{
		SubscriptionID: subResp.ID,
		Status:         subResp.Status,
		NextBillingAt:  next,
	}, nil
}

func (mps *MidtransPaymentService) CancelSubscription(ctx context.Context, subscriptionID string) error {
	_, err := mps.post(ctx, fmt.Sprintf("%s/v1/subscriptions/%s/disable", mps.coreURL, subscriptionID), map[string]interface{}{}, http.StatusOK)
	return err
}

func (mps *MidtransPaymentService) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return Signature(orderID, statusCode, grossAmount, mps.serverKey) == signature
}

func (mps *MidtransPaymentService) post(ctx context.Context, url string, payload interface{}, wantStatus int) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	mps.setHeaders(httpReq)

	resp, err := mps.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		logger.Error("Midtrans API error: %s", string(body))
		return nil, fmt.Errorf("midtrans API error: %s", string(body))
	}

	return body, nil
}

func (mps *MidtransPaymentService) get(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	mps.setHeaders(httpReq)

	resp, err := mps.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("Midtrans API error: %s", string(body))
		return nil, fmt.Errorf("midtrans API error: %s", string(body))
	}

	return body, nil
}

func (mps *MidtransPaymentService) setHeaders(req *http.Request) {
	authHeader := base64.StdEncoding.EncodeToString([]byte(mps.serverKey + ":"))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+authHeader)
}

func mapTransactionStatus(transactionStatus string) string {
	switch transactionStatus {
	case "settlement", "capture":
		return "success"
	case "cancel", "deny", "expire":
		return "failure"
	default:
		return "pending"
	}
}
