package services

import "testing"

func TestChargedGross(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{name: "whole share", amount: 130000, expect: "130000.00"},
		{name: "fractional share truncates", amount: 86666.67, expect: "86666.00"},
		{name: "just below whole", amount: 99999.99, expect: "99999.00"},
		{name: "zero", amount: 0, expect: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chargedGross(tt.amount)
			if got != tt.expect {
				t.Errorf("chargedGross(%v) = %q; want %q", tt.amount, got, tt.expect)
			}
		})
	}
}

func TestChargedGrossMatchesSettlementEcho(t *testing.T) {
	// A three-way split of 260000 owes 86666.67; the gateway is charged
	// 86666 and echoes "86666.00" on settlement. The callback check must
	// accept that echo and still reject a genuinely different gross.
	owed := 260000.0 / 3
	charged := float64(int64(owed))

	if got := chargedGross(charged); got != "86666.00" {
		t.Errorf("legitimate settlement echo rejected: chargedGross(%v) = %q; want %q", charged, got, "86666.00")
	}
	if chargedGross(charged) == "86667.00" {
		t.Error("different gross accepted")
	}
}
