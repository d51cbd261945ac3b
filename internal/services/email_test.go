package services

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name   string
		to     []string
		wantTo string
	}{
		{name: "single recipient", to: []string{"a@club.test"}, wantTo: "To: a@club.test\r\n"},
		{name: "all recipients addressed", to: []string{"a@club.test", "b@club.test"}, wantTo: "To: a@club.test, b@club.test\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := string(buildMessage("club@club.test", tt.to, "Payment approved", "Your request was approved."))
			if !strings.Contains(msg, tt.wantTo) {
				t.Errorf("message %q missing header %q", msg, tt.wantTo)
			}
			if !strings.Contains(msg, "Subject: Payment approved\r\n") {
				t.Errorf("message %q missing subject header", msg)
			}
		})
	}
}
