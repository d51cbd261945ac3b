package billing

import "testing"

func TestCoveredExpenseCoversShare(t *testing.T) {
	// Share is 40000 (80000 over 2 slots); a 50000 self-logged expense
	// marks the member covered, and removing it reverts the decision.
	cost := SessionCost{BaseCost: 30000, CourtCount: 1}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1},
		{MemberID: 2, Slots: 1},
	}
	expenses := []Expense{{LoggedByID: 1, Amount: 50000}}

	paid, attending := Covered(cost, expenses, attendees, 1)
	if !attending {
		t.Fatal("member 1 should be attending")
	}
	if !paid {
		t.Error("member 1 should be covered by their own expense")
	}

	// Expense deleted: share drops back to 15000, nothing self-logged.
	paid, _ = Covered(cost, nil, attendees, 1)
	if paid {
		t.Error("member 1 should not be covered after expense removal")
	}
}

func TestCoveredIdempotent(t *testing.T) {
	cost := SessionCost{BaseCost: 100000, CourtCount: 1}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1},
		{MemberID: 2, Slots: 3},
	}
	expenses := []Expense{{LoggedByID: 2, Amount: 80000}}

	for _, id := range []uint{1, 2} {
		first, _ := Covered(cost, expenses, attendees, id)
		second, _ := Covered(cost, expenses, attendees, id)
		if first != second {
			t.Errorf("Covered(member %d) not idempotent: %v then %v", id, first, second)
		}
	}
}

func TestCoveredNotAttending(t *testing.T) {
	cost := SessionCost{BaseCost: 100000, CourtCount: 1}
	attendees := []Attendee{{MemberID: 1, Slots: 1}}

	paid, attending := Covered(cost, nil, attendees, 42)
	if attending {
		t.Error("member 42 should not be attending")
	}
	if paid {
		t.Error("absent member should never be marked covered")
	}
}

func TestCoveredCoreMemberResidualExtras(t *testing.T) {
	// Core members have no court obligation, so with no extras they are
	// covered outright; an extra expense creates a residual obligation.
	cost := SessionCost{BaseCost: 200000, CourtCount: 1}
	attendees := []Attendee{
		{MemberID: 1, Slots: 1, Core: true},
		{MemberID: 2, Slots: 1},
	}

	paid, _ := Covered(cost, nil, attendees, 1)
	if !paid {
		t.Error("core member with no extras should be covered")
	}

	expenses := []Expense{{LoggedByID: 2, Amount: 30000}}
	paid, _ = Covered(cost, expenses, attendees, 1)
	if paid {
		t.Error("core member owes their extra-expense share")
	}
}
