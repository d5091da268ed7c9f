package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// LiveAPIURL is Instamojo's production REST endpoint.
	LiveAPIURL = "https://www.instamojo.com/api/1.1"
	// TestAPIURL is Instamojo's sandbox REST endpoint.
	TestAPIURL = "https://test.instamojo.com/api/1.1"

	gatewayTimeout = 30 * time.Second
)

// Instamojo talks to the Instamojo payment-requests API. There is no
// official Go SDK, so this is a plain REST client.
type Instamojo struct {
	apiURL      string
	apiKey      string
	authToken   string
	redirectURL string
	webhookURL  string
	client      *http.Client
}

func NewInstamojo(apiURL, apiKey, authToken, baseURL string) *Instamojo {
	return &Instamojo{
		apiURL:      strings.TrimRight(apiURL, "/"),
		apiKey:      apiKey,
		authToken:   authToken,
		redirectURL: baseURL + "/payment-success",
		webhookURL:  baseURL + "/api/webhook",
		client:      &http.Client{Timeout: gatewayTimeout},
	}
}

type paymentRequestBody struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	LongURL  string `json:"longurl"`
	ShortURL string `json:"shorturl"`
	Payment  *struct {
		Status string `json:"status"`
	} `json:"payment"`
}

type instamojoResponse struct {
	Success        bool               `json:"success"`
	Message        json.RawMessage    `json:"message"`
	PaymentRequest paymentRequestBody `json:"payment_request"`
}

func (im *Instamojo) CreatePaymentRequest(ctx context.Context, req CreateRequest) (*PaymentRequest, error) {
	form := url.Values{}
	form.Set("purpose", req.Purpose)
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("buyer_name", req.BuyerName)
	form.Set("email", req.BuyerEmail)
	form.Set("phone", req.BuyerPhone)
	form.Set("redirect_url", im.redirectURL+"?orderId="+url.QueryEscape(req.OrderID))
	form.Set("webhook", im.webhookURL)
	form.Set("allow_repeated_payments", "false")
	form.Set("send_email", "false")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		im.apiURL+"/payment-requests/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := im.do(httpReq)
	if err != nil {
		return nil, err
	}

	var resp instamojoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrGateway, err)
	}
	if !resp.Success || resp.PaymentRequest.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrGateway, string(resp.Message))
	}

	return &PaymentRequest{
		ID:       resp.PaymentRequest.ID,
		LongURL:  resp.PaymentRequest.LongURL,
		ShortURL: resp.PaymentRequest.ShortURL,
	}, nil
}

func (im *Instamojo) VerifyPayment(ctx context.Context, requestID, paymentID string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/payment-requests/%s/%s/", im.apiURL, requestID, paymentID), nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	body, err := im.do(httpReq)
	if err != nil {
		return false, err
	}

	var resp instamojoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("%w: malformed response: %v", ErrGateway, err)
	}
	p := resp.PaymentRequest.Payment
	return resp.Success && p != nil && p.Status == "Credit", nil
}

// do sends the request with auth headers and maps transport and HTTP
// failures onto the gateway error taxonomy.
func (im *Instamojo) do(req *http.Request) ([]byte, error) {
	req.Header.Set("X-Api-Key", im.apiKey)
	req.Header.Set("X-Auth-Token", im.authToken)

	resp, err := im.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, gatewayTimeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGateway, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuth
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, providerMessage(body))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrGateway, resp.StatusCode)
	}
	return body, nil
}

// providerMessage extracts Instamojo's error message from a 4xx body, which
// may be a string or a field->reasons object.
func providerMessage(body []byte) string {
	var resp struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Message) > 0 {
		var s string
		if json.Unmarshal(resp.Message, &s) == nil {
			return s
		}
		return string(resp.Message)
	}
	return strings.TrimSpace(string(body))
}
