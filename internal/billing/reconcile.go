package billing

// Covered reports whether a member's self-logged expenses already cover
// their share of the session. This is the paid-flag decision used after
// an expense is added or removed. It is a pure recomputation: calling it
// twice on the same inputs gives the same answer.
//
// Explicit paid toggles (admin action, approved payment request, settled
// gateway payment) bypass this and set the flag directly; the override
// holds until the next expense-triggered recomputation.
func Covered(cost SessionCost, expenses []Expense, attendees []Attendee, memberID uint) (paid bool, attending bool) {
	if _, ok := findAttendee(attendees, memberID); !ok {
		return false, false
	}
	return SelfLogged(expenses, memberID) >= Share(cost, expenses, attendees, memberID), true
}
