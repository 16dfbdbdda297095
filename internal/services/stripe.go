package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StripeService creates payment intents for card purchases. The client
// secret is handed to the frontend for confirmation; the intent id is kept
// for webhook lookup.
type StripeService struct {
	SecretKey string
	BaseURL   string
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewStripeService() *StripeService {
	return &StripeService{
		SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		BaseURL:   "https://api.stripe.com/v1",
	}
}

func (s *StripeService) Configured() bool {
	return s.SecretKey != ""
}

// CreatePaymentIntent opens a card payment for the given amount. Stripe
// amounts are integer minor units; XOF has no minor unit so the amount is
// converted to cents with a floor of 100.
func (s *StripeService) CreatePaymentIntent(amount decimal.Decimal, currency string) (*PaymentIntent, error) {
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	if amountCents < 100 {
		amountCents = 100
	}

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amountCents))
	form.Set("currency", currency)
	form.Add("payment_method_types[]", "card")

	req, err := http.NewRequest("POST", s.BaseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e stripeError
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error.Message != "" {
			return nil, fmt.Errorf("stripe error: %s", e.Error.Message)
		}
		return nil, fmt.Errorf("stripe error: status %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &intent, nil
}
