package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
)

// SessionStatusComplete is the hosted-checkout status that confirms
// payment; it is the signal for clearing the shopper's cart.
const SessionStatusComplete = "complete"

// CheckoutSession is returned by the payment provider via the commerce API.
// Depending on provider configuration either ClientSecret (embedded
// checkout) or SessionID (redirect checkout) is populated.
type CheckoutSession struct {
	ClientSecret string `json:"clientSecret,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
}

// SessionStatus reports where a hosted-checkout session stands.
type SessionStatus struct {
	Status        string `json:"status"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Service drives the hosted-checkout handoff. Nothing here is cached:
// session state is owned by the payment provider and always read live.
type Service struct {
	api *backend.Client
}

func NewService(api *backend.Client) *Service {
	return &Service{api: api}
}

// CreateSession asks the API to open a hosted-checkout session for orderID.
func (s *Service) CreateSession(ctx context.Context, orderID string) (CheckoutSession, error) {
	body := map[string]string{"orderId": orderID}
	var out CheckoutSession
	if err := s.api.Do(ctx, http.MethodPost, "/payments/create-checkout-session", nil, body, &out); err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return out, nil
}

// GetSessionStatus fetches the status of a hosted-checkout session.
func (s *Service) GetSessionStatus(ctx context.Context, sessionID string) (SessionStatus, error) {
	q := url.Values{"session_id": []string{sessionID}}
	var out SessionStatus
	if err := s.api.Do(ctx, http.MethodGet, "/payments/checkout-session-status", q, nil, &out); err != nil {
		return SessionStatus{}, fmt.Errorf("checkout session status: %w", err)
	}
	return out, nil
}
