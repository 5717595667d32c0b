package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRoundTrip(t *testing.T) {
	n := Note{OrderID: 42, UserID: 7, Amount: 999}

	encoded, err := EncodeNote("secret", n)
	require.NoError(t, err)

	decoded, err := DecodeNote("secret", 999, encoded)
	require.NoError(t, err)
	assert.Equal(t, n, decoded)
}

func TestNoteRejectsWrongAmount(t *testing.T) {
	encoded, err := EncodeNote("secret", Note{OrderID: 42, UserID: 7, Amount: 999})
	require.NoError(t, err)

	_, err = DecodeNote("secret", 1000, encoded)
	assert.Error(t, err, "note keyed by amount must not decode against a different amount")
}

func TestNoteRejectsTampering(t *testing.T) {
	encoded, err := EncodeNote("secret", Note{OrderID: 42, UserID: 7, Amount: 500})
	require.NoError(t, err)

	tampered := encoded[:len(encoded)-2] + "AA"
	_, err = DecodeNote("secret", 500, tampered)
	assert.Error(t, err)
}

func TestBuildLink(t *testing.T) {
	link := BuildLink("agency@upi", "Sri Vijaya Lakshmi Agency", 740, "abc123")
	require.True(t, strings.HasPrefix(link, "upi://pay?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "agency@upi", q.Get("pa"))
	assert.Equal(t, "Sri Vijaya Lakshmi Agency", q.Get("pn"))
	assert.Equal(t, "740", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "0000", q.Get("mc"))
	assert.Equal(t, "02", q.Get("mode"))
	assert.Equal(t, "00", q.Get("purpose"))
	assert.Equal(t, "abc123", q.Get("tn"))
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("9876543210", "Hello there")
	assert.Equal(t, "https://wa.me/919876543210?text=Hello+there", link)

	link = WhatsAppLink("447700900000", "hi")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/447700900000?"))
}

func TestNewPaymentHash(t *testing.T) {
	a := NewPaymentHash()
	b := NewPaymentHash()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
