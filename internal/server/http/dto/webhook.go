package dto

import "github.com/jmcastano/payflow/internal/domain/model"

// WebhookTransaction is the transaction block inside a gateway event.
type WebhookTransaction struct {
	ID            string `json:"id"`
	Reference     string `json:"reference"`
	Status        string `json:"status"`
	AmountInCents int64  `json:"amount_in_cents"`
}

// WebhookData wraps the event payload.
type WebhookData struct {
	Transaction WebhookTransaction `json:"transaction"`
}

// WebhookSignature is the signature block of a gateway event. The body
// checksum is authoritative; the header copy is ignored.
type WebhookSignature struct {
	Checksum   string   `json:"checksum"`
	Properties []string `json:"properties"`
}

// WebhookEventRequest describes an inbound gateway event.
type WebhookEventRequest struct {
	Event     string            `json:"event"`
	Timestamp int64             `json:"timestamp"`
	Data      WebhookData       `json:"data"`
	Signature *WebhookSignature `json:"signature"`
}

// ToModel flattens the wire format into the domain event.
func (r *WebhookEventRequest) ToModel() *model.WebhookEvent {
	event := &model.WebhookEvent{
		Event:     r.Event,
		Timestamp: r.Timestamp,
		Transaction: model.Transaction{
			ID:            r.Data.Transaction.ID,
			Reference:     r.Data.Transaction.Reference,
			Status:        r.Data.Transaction.Status,
			AmountInCents: r.Data.Transaction.AmountInCents,
		},
	}
	if r.Signature != nil {
		event.Checksum = r.Signature.Checksum
	}
	return event
}

// WebhookResponse acknowledges an event to the gateway.
type WebhookResponse struct {
	Message string `json:"message"`
}
