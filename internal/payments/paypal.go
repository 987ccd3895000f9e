package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PayPalClient wraps the small slice of the PayPal Orders v2 REST API this
// backend uses: client-credentials token, order create, order capture.
type PayPalClient struct {
	Base     string
	ClientID string
	Secret   string
	HTTP     *http.Client
}

func NewPayPalClient(base, clientID, secret string) *PayPalClient {
	return &PayPalClient{
		Base:     strings.TrimRight(base, "/"),
		ClientID: clientID,
		Secret:   secret,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

// CaptureResult carries the fields the order pipeline needs from a capture
// response: completion status, the correlated internal order id, and the
// payer's email.
type CaptureResult struct {
	Status     string
	CustomID   string
	PayerEmail string
}

func (c *PayPalClient) token(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.Secret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	return body.AccessToken, nil
}

// CreateOrder creates a provider-side order carrying the internal order id as
// custom_id and returns the buyer approval URL.
func (c *PayPalClient) CreateOrder(ctx context.Context, total float64, currency, customID, returnURL, cancelURL string) (string, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", total),
			},
			"custom_id": customID,
		}},
		"application_context": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
	}
	raw, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal create order: status %d", resp.StatusCode)
	}

	var body struct {
		Links []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}
	for _, l := range body.Links {
		if l.Rel == "approve" {
			return l.Href, nil
		}
	}
	return "", fmt.Errorf("paypal create order: no approval link")
}

// CaptureOrder captures payment for an approved provider order. The internal
// order id travels back in the capture's custom_id.
func (c *PayPalClient) CaptureOrder(ctx context.Context, providerOrderID string) (CaptureResult, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		return CaptureResult{}, err
	}

	u := c.Base + "/v2/checkout/orders/" + url.PathEscape(providerOrderID) + "/capture"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader([]byte("{}")))
	if err != nil {
		return CaptureResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return CaptureResult{}, fmt.Errorf("paypal capture: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return CaptureResult{}, fmt.Errorf("paypal capture: status %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Payer  struct {
			EmailAddress string `json:"email_address"`
		} `json:"payer"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					CustomID string `json:"custom_id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return CaptureResult{}, fmt.Errorf("paypal capture: %w", err)
	}

	res := CaptureResult{Status: body.Status, PayerEmail: body.Payer.EmailAddress}
	if len(body.PurchaseUnits) > 0 && len(body.PurchaseUnits[0].Payments.Captures) > 0 {
		res.CustomID = body.PurchaseUnits[0].Payments.Captures[0].CustomID
	}
	return res, nil
}
