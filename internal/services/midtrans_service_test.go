package services

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

func TestVerifyCallbackSignature(t *testing.T) {
	orderID := "session-12-member-3-1714000000"
	statusCode := "200"
	grossAmount := "130000.00"
	serverKey := "SB-Mid-server-test"

	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	valid := hex.EncodeToString(sum[:])

	tests := []struct {
		name      string
		signature string
		expect    bool
	}{
		{name: "valid signature", signature: valid, expect: true},
		{name: "tampered signature", signature: "deadbeef" + valid[8:], expect: false},
		{name: "empty signature", signature: "", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyCallbackSignature(orderID, statusCode, grossAmount, serverKey, tt.signature)
			if got != tt.expect {
				t.Errorf("VerifyCallbackSignature(%q) = %v; want %v", tt.name, got, tt.expect)
			}
		})
	}
}

func TestVerifyCallbackSignatureAmountBinding(t *testing.T) {
	// A signature computed for one amount must not verify for another.
	serverKey := "SB-Mid-server-test"
	sum := sha512.Sum512([]byte("order-1" + "200" + "130000.00" + serverKey))
	sig := hex.EncodeToString(sum[:])

	if VerifyCallbackSignature("order-1", "200", "999999.00", serverKey, sig) {
		t.Error("signature verified against a different gross amount")
	}
}
