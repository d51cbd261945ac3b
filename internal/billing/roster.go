package billing

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidSlots       = errors.New("slot count must be at least 1")
	ErrCapacityFull       = errors.New("session is at capacity")
	ErrRegistrationClosed = errors.New("registration is closed for this session")
	ErrAlreadyRegistered  = errors.New("member is already registered for this session")
)

// CheckSlots validates a registration slot count.
func CheckSlots(slots int) error {
	if slots < 1 {
		return ErrInvalidSlots
	}
	return nil
}

// CheckCapacity rejects a registration that would push total attendance
// past the session capacity. maxMembers <= 0 means unlimited. The check
// is advisory at the application layer; the store does not enforce it.
func CheckCapacity(currentSlots, addingSlots, maxMembers int) error {
	if maxMembers <= 0 {
		return nil
	}
	if currentSlots+addingSlots > maxMembers {
		return ErrCapacityFull
	}
	return nil
}

// EnrollmentCandidates returns the core members to auto-enroll into a
// session: every core member not already attending and not opted out.
// The result is sorted so repeated runs over the same state produce the
// same set in the same order.
func EnrollmentCandidates(core, attending, optedOut map[uint]bool) []uint {
	candidates := make([]uint, 0, len(core))
	for memberID := range core {
		if attending[memberID] || optedOut[memberID] {
			continue
		}
		candidates = append(candidates, memberID)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates
}

// CheckCutoff rejects joins and withdrawals inside the cutoff window
// before session start. Admins bypass the window. A session already
// started is also closed.
func CheckCutoff(now, start time.Time, cutoff time.Duration, admin bool) error {
	if admin {
		return nil
	}
	if !now.Before(start.Add(-cutoff)) {
		return ErrRegistrationClosed
	}
	return nil
}
