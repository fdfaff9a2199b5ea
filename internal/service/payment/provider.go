// Package payment abstracts the hosted-checkout providers behind a
// single interface. The session only carries an opaque request ID; the
// form fields themselves stay server-side until payment is verified.
package payment

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotPaid is returned by CheckoutRequestID when the session exists
// but its payment has not completed.
var ErrNotPaid = errors.New("checkout session not paid")

// Provider defines the interface that all payment providers must implement
type Provider interface {
	// CreateCheckoutURL creates a checkout session for one content pack
	// and returns the hosted checkout URL. requestID is the stored
	// checkout request the session pays for.
	CreateCheckoutURL(ctx context.Context, requestID, customerEmail string) (string, error)

	// CheckoutRequestID verifies with the provider that the session was
	// paid and returns the request ID from the session metadata.
	CheckoutRequestID(ctx context.Context, sessionID string) (string, error)

	// HandleWebhook processes webhook events from the payment provider
	HandleWebhook(payload []byte, headers http.Header) error

	// Name returns the provider name (e.g., "polar", "stripe")
	Name() string
}
