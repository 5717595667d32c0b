package payment

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Note is the payload carried inside the UPI transaction note. It lets
// the payment-confirmation path correlate a payment back to its order
// without a separate lookup table.
type Note struct {
	OrderID uint  `json:"order_id"`
	UserID  uint  `json:"user_id"`
	Amount  int64 `json:"amount"`
}

// noteKey derives the AES key from the configured secret and the order
// amount, so a note is only decodable against the amount it was issued for.
func noteKey(secret string, amount int64) []byte {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", secret, amount)))
	return sum[:]
}

// EncodeNote encrypts a note with AES-GCM and base64url-encodes it.
func EncodeNote(secret string, n Note) (string, error) {
	plain, err := json.Marshal(n)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(noteKey(secret, n.Amount))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecodeNote reverses EncodeNote. It fails on tampered notes or when
// the supplied amount does not match the one the note was keyed with.
func DecodeNote(secret string, amount int64, encoded string) (Note, error) {
	var n Note

	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return n, fmt.Errorf("malformed note: %w", err)
	}

	block, err := aes.NewCipher(noteKey(secret, amount))
	if err != nil {
		return n, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return n, err
	}
	if len(sealed) < gcm.NonceSize() {
		return n, fmt.Errorf("malformed note: too short")
	}

	plain, err := gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
	if err != nil {
		return n, fmt.Errorf("note verification failed: %w", err)
	}

	if err := json.Unmarshal(plain, &n); err != nil {
		return n, fmt.Errorf("malformed note payload: %w", err)
	}
	return n, nil
}

// NewPaymentHash issues the opaque reference stored on the order and
// echoed by payment confirmations.
func NewPaymentHash() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BuildLink renders the upi://pay deep link for a payment request. The
// static mc/mode/purpose values match what Indian payment apps expect
// for a merchant collect request.
func BuildLink(payeeVPA, payeeName string, amount int64, note string) string {
	q := url.Values{}
	q.Set("pa", payeeVPA)
	q.Set("pn", payeeName)
	q.Set("am", fmt.Sprintf("%d", amount))
	q.Set("cu", "INR")
	q.Set("mc", "0000")
	q.Set("mode", "02")
	q.Set("purpose", "00")
	q.Set("tn", note)
	return "upi://pay?" + q.Encode()
}

// WhatsAppLink builds a wa.me chat link with a prefilled message.
// Ten-digit numbers get the Indian country prefix.
func WhatsAppLink(number, message string) string {
	if len(number) == 10 {
		number = "91" + number
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))
}
