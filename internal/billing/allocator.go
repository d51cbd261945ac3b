// Package billing computes per-member cost shares for a session and
// derives the paid/unpaid state from them. Everything here is pure:
// callers load the session state, call in, and decide what to persist.
package billing

// Attendee is one attendance record as seen by the allocator.
type Attendee struct {
	MemberID uint
	Slots    int
	Core     bool
	Paid     bool
}

// Expense is one extra expense logged against the session.
type Expense struct {
	LoggedByID uint
	Amount     float64
}

// SessionCost describes the court-fee side of a session.
type SessionCost struct {
	BaseCost   float64
	CourtCount int
}

// TotalSlots sums slot counts over all attendees. Core members count too;
// their waived court share is absorbed by the club, not redistributed.
func TotalSlots(attendees []Attendee) int {
	total := 0
	for _, a := range attendees {
		total += a.Slots
	}
	return total
}

// EffectiveCost is the base court cost multiplied by the court count.
func EffectiveCost(c SessionCost) float64 {
	courts := c.CourtCount
	if courts < 1 {
		courts = 1
	}
	return c.BaseCost * float64(courts)
}

// TotalExtra sums all extra expense amounts.
func TotalExtra(expenses []Expense) float64 {
	total := 0.0
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// SelfLogged sums the expenses logged by the given member.
func SelfLogged(expenses []Expense, memberID uint) float64 {
	total := 0.0
	for _, e := range expenses {
		if e.LoggedByID == memberID {
			total += e.Amount
		}
	}
	return total
}

func findAttendee(attendees []Attendee, memberID uint) (Attendee, bool) {
	for _, a := range attendees {
		if a.MemberID == memberID {
			return a, true
		}
	}
	return Attendee{}, false
}

// Share computes the gross obligation of one member: their per-slot share
// of the court cost plus extras. Core members are exempt from the court
// cost but still owe their pro-rata share of extras. A member not in the
// attendance list owes nothing.
func Share(cost SessionCost, expenses []Expense, attendees []Attendee, memberID uint) float64 {
	totalSlots := TotalSlots(attendees)
	if totalSlots == 0 {
		return 0
	}

	a, ok := findAttendee(attendees, memberID)
	if !ok {
		return 0
	}

	extraPerSlot := TotalExtra(expenses) / float64(totalSlots)
	if a.Core {
		return extraPerSlot * float64(a.Slots)
	}

	courtPerSlot := EffectiveCost(cost) / float64(totalSlots)
	return (courtPerSlot + extraPerSlot) * float64(a.Slots)
}

// NetOwed is the member's share minus the expenses they logged themselves.
// Negative means the club owes the member money; the value is surfaced
// as-is, never clamped.
func NetOwed(cost SessionCost, expenses []Expense, attendees []Attendee, memberID uint) float64 {
	if _, ok := findAttendee(attendees, memberID); !ok {
		return 0
	}
	return Share(cost, expenses, attendees, memberID) - SelfLogged(expenses, memberID)
}
