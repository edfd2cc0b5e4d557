package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/domain/model"
)

// Verifier authenticates inbound gateway events against a shared secret.
// Verification is a pure function of the event and the configured secret; it
// never mutates state.
type Verifier struct {
	secret string
}

// NewVerifier builds a Verifier with the shared events secret. An empty
// secret is allowed at construction time; Verify then fails with
// ErrSecretNotConfigured instead of silently accepting events.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// EventChecksum computes the expected hex checksum for an event: SHA-256 over
// the concatenation of transaction id, status, amount in cents, timestamp and
// the shared secret.
func EventChecksum(tx model.Transaction, timestamp int64, secret string) string {
	payload := fmt.Sprintf("%s%s%d%d%s", tx.ID, tx.Status, tx.AmountInCents, timestamp, secret)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Verify checks the event checksum. Failure modes are distinct:
// ErrMalformedEvent for missing fields, ErrInvalidSignature for a checksum
// mismatch, ErrSecretNotConfigured when this side has no secret.
func (v *Verifier) Verify(event *model.WebhookEvent) error {
	if v.secret == "" {
		return domainErrors.ErrSecretNotConfigured
	}
	if event == nil || event.Checksum == "" || event.Timestamp == 0 {
		return domainErrors.ErrMalformedEvent
	}
	if event.Transaction.ID == "" || event.Transaction.Status == "" || event.Transaction.Reference == "" {
		return domainErrors.ErrMalformedEvent
	}

	expected := EventChecksum(event.Transaction, event.Timestamp, v.secret)
	if !hmac.Equal([]byte(expected), []byte(event.Checksum)) {
		return domainErrors.ErrInvalidSignature
	}
	return nil
}

// IntegrityDigest computes the signature sent with outbound transaction
// creation requests: SHA-256 over reference, amount, currency and the
// integrity secret.
func IntegrityDigest(reference string, amountInCents int64, currency, secret string) string {
	payload := fmt.Sprintf("%s%d%s%s", reference, amountInCents, currency, secret)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
