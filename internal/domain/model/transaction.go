package model

// Transaction mirrors the gateway's view of a payment attempt, both in
// webhook events and in responses from the gateway REST API.
type Transaction struct {
	ID            string
	Reference     string
	Status        string
	AmountInCents int64
}

// WebhookEvent is the verified content of an inbound gateway notification.
type WebhookEvent struct {
	Event       string
	Timestamp   int64
	Transaction Transaction
	Checksum    string
}

// EventTransactionUpdated is the only event type that drives order
// reconciliation; everything else is acknowledged and ignored.
const EventTransactionUpdated = "transaction.updated"
