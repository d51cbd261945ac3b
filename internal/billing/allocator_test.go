package billing

import (
	"math"
	"testing"
)

func TestShareSplitsEvenly(t *testing.T) {
	cost := SessionCost{BaseCost: 260000, CourtCount: 1}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1},
		{MemberID: 2, Slots: 1},
	}

	for _, id := range []uint{1, 2} {
		got := Share(cost, nil, attendees, id)
		if got != 130000 {
			t.Errorf("Share(member %d) = %v; want 130000", id, got)
		}
	}
}

func TestShareCoreMemberExemption(t *testing.T) {
	// Per-slot cost is still computed over both slots, then zeroed for the
	// core member. The club absorbs the shortfall; the other attendee's
	// share does not grow.
	cost := SessionCost{BaseCost: 260000, CourtCount: 1}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1, Core: true},
		{MemberID: 2, Slots: 1},
	}

	if got := Share(cost, nil, attendees, 1); got != 0 {
		t.Errorf("core member share = %v; want 0", got)
	}
	if got := Share(cost, nil, attendees, 2); got != 130000 {
		t.Errorf("non-core share = %v; want 130000", got)
	}
}

func TestShareCoreMemberStillOwesExtras(t *testing.T) {
	cost := SessionCost{BaseCost: 260000, CourtCount: 1}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1, Core: true},
		{MemberID: 2, Slots: 1},
	}
	expenses := []Expense{{LoggedByID: 2, Amount: 60000}}

	if got := Share(cost, expenses, attendees, 1); got != 30000 {
		t.Errorf("core member extra share = %v; want 30000", got)
	}
	if got := Share(cost, expenses, attendees, 2); got != 160000 {
		t.Errorf("non-core share = %v; want 160000", got)
	}
}

func TestShareZeroAttendees(t *testing.T) {
	cost := SessionCost{BaseCost: 260000, CourtCount: 2}
	if got := Share(cost, nil, nil, 1); got != 0 {
		t.Errorf("Share with no attendees = %v; want 0", got)
	}
	if got := NetOwed(cost, nil, nil, 1); got != 0 {
		t.Errorf("NetOwed with no attendees = %v; want 0", got)
	}
}

func TestShareMemberNotAttending(t *testing.T) {
	cost := SessionCost{BaseCost: 100000, CourtCount: 1}
	attendees := []Attendee{{MemberID: 1, Slots: 2}}
	if got := Share(cost, nil, attendees, 99); got != 0 {
		t.Errorf("Share for absent member = %v; want 0", got)
	}
}

func TestEffectiveCostCourtMultiplier(t *testing.T) {
	tests := []struct {
		name   string
		cost   SessionCost
		expect float64
	}{
		{name: "two courts", cost: SessionCost{BaseCost: 130000, CourtCount: 2}, expect: 260000},
		{name: "zero courts treated as one", cost: SessionCost{BaseCost: 130000, CourtCount: 0}, expect: 130000},
		{name: "one court", cost: SessionCost{BaseCost: 130000, CourtCount: 1}, expect: 130000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveCost(tt.cost); got != tt.expect {
				t.Errorf("EffectiveCost = %v; want %v", got, tt.expect)
			}
		})
	}
}

func TestSharesPartitionTotalCost(t *testing.T) {
	// Without core members, shares over all attendees must sum to the
	// effective cost plus extras, modulo float rounding.
	cost := SessionCost{BaseCost: 260000, CourtCount: 2}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1},
		{MemberID: 2, Slots: 3},
		{MemberID: 3, Slots: 2},
		{MemberID: 4, Slots: 1},
	}
	expenses := []Expense{
		{LoggedByID: 1, Amount: 45000},
		{LoggedByID: 3, Amount: 17500},
	}

	sum := 0.0
	for _, a := range attendees {
		sum += Share(cost, expenses, attendees, a.MemberID)
	}

	want := EffectiveCost(cost) + TotalExtra(expenses)
	if math.Abs(sum-want) > 1e-6 {
		t.Errorf("sum of shares = %v; want %v", sum, want)
	}
}

func TestNetOwedSelfLoggedCredit(t *testing.T) {
	// A member's own logged expenses always count against their share,
	// and a negative result (refund owed) is surfaced as-is.
	cost := SessionCost{BaseCost: 60000, CourtCount: 1}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1},
		{MemberID: 2, Slots: 1},
	}
	expenses := []Expense{{LoggedByID: 1, Amount: 50000}}

	// total 110000 over 2 slots -> share 55000 each
	if got := NetOwed(cost, expenses, attendees, 1); got != 5000 {
		t.Errorf("NetOwed(member 1) = %v; want 5000", got)
	}
	if got := NetOwed(cost, expenses, attendees, 2); got != 55000 {
		t.Errorf("NetOwed(member 2) = %v; want 55000", got)
	}

	// Bigger expense flips the sign.
	expenses[0].Amount = 120000
	// total 180000 -> share 90000; 90000-120000 = -30000
	if got := NetOwed(cost, expenses, attendees, 1); got != -30000 {
		t.Errorf("NetOwed with excess expense = %v; want -30000", got)
	}
}

func TestNetOwedCoreMemberNoCourtComponent(t *testing.T) {
	cost := SessionCost{BaseCost: 500000, CourtCount: 3}
	attendees := []Attendee{
		{MemberID: 1, Slots: 2, Core: true},
		{MemberID: 2, Slots: 2},
	}
	expenses := []Expense{{LoggedByID: 1, Amount: 10000}}

	// Extras 10000 over 4 slots -> core share 5000, minus own 10000.
	if got := NetOwed(cost, expenses, attendees, 1); got != -5000 {
		t.Errorf("core member NetOwed = %v; want -5000", got)
	}
}
