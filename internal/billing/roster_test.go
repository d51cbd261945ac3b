package billing

import (
	"reflect"
	"testing"
	"time"
)

func TestCheckSlots(t *testing.T) {
	if err := CheckSlots(0); err != ErrInvalidSlots {
		t.Errorf("CheckSlots(0) = %v; want ErrInvalidSlots", err)
	}
	if err := CheckSlots(-2); err != ErrInvalidSlots {
		t.Errorf("CheckSlots(-2) = %v; want ErrInvalidSlots", err)
	}
	if err := CheckSlots(1); err != nil {
		t.Errorf("CheckSlots(1) = %v; want nil", err)
	}
}

func TestCheckCapacity(t *testing.T) {
	tests := []struct {
		name    string
		current int
		adding  int
		max     int
		wantErr error
	}{
		{name: "unlimited", current: 100, adding: 5, max: 0, wantErr: nil},
		{name: "fits exactly", current: 8, adding: 2, max: 10, wantErr: nil},
		{name: "overflows", current: 9, adding: 2, max: 10, wantErr: ErrCapacityFull},
		{name: "guest slots overflow", current: 6, adding: 3, max: 8, wantErr: ErrCapacityFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckCapacity(tt.current, tt.adding, tt.max); err != tt.wantErr {
				t.Errorf("CheckCapacity(%d, %d, %d) = %v; want %v",
					tt.current, tt.adding, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestEnrollmentCandidates(t *testing.T) {
	core := map[uint]bool{1: true, 2: true, 3: true}

	tests := []struct {
		name      string
		attending map[uint]bool
		optedOut  map[uint]bool
		want      []uint
	}{
		{name: "empty session enrolls all core", want: []uint{1, 2, 3}},
		{name: "already attending are skipped", attending: map[uint]bool{2: true}, want: []uint{1, 3}},
		{name: "opt-outs are skipped", optedOut: map[uint]bool{1: true}, want: []uint{2, 3}},
		{name: "attending and opted out", attending: map[uint]bool{3: true}, optedOut: map[uint]bool{1: true}, want: []uint{2}},
		{name: "nothing left to enroll", attending: map[uint]bool{1: true, 2: true}, optedOut: map[uint]bool{3: true}, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnrollmentCandidates(core, tt.attending, tt.optedOut)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EnrollmentCandidates = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestEnrollmentCandidatesIdempotent(t *testing.T) {
	// Running auto-enrollment twice yields the same set: after the first
	// run the candidates are attending, so the second run adds nobody.
	core := map[uint]bool{1: true, 2: true, 3: true}
	attending := map[uint]bool{}
	optedOut := map[uint]bool{2: true}

	first := EnrollmentCandidates(core, attending, optedOut)
	if want := []uint{1, 3}; !reflect.DeepEqual(first, want) {
		t.Fatalf("first run = %v; want %v", first, want)
	}
	for _, id := range first {
		attending[id] = true
	}
	if second := EnrollmentCandidates(core, attending, optedOut); len(second) != 0 {
		t.Errorf("second run = %v; want no new enrollments", second)
	}
}

func TestEnrollmentCandidatesAfterWithdrawal(t *testing.T) {
	// A core member who withdrew gets an opt-out and is not re-added.
	// Re-registering clears the opt-out, and a later run leaves the
	// attendance alone.
	core := map[uint]bool{1: true, 2: true}
	attending := map[uint]bool{1: true, 2: true}
	optedOut := map[uint]bool{}

	// Member 2 withdraws.
	delete(attending, 2)
	optedOut[2] = true
	if got := EnrollmentCandidates(core, attending, optedOut); len(got) != 0 {
		t.Fatalf("after withdrawal = %v; want no re-enrollment", got)
	}

	// Member 2 re-registers, clearing the opt-out.
	attending[2] = true
	delete(optedOut, 2)
	if got := EnrollmentCandidates(core, attending, optedOut); len(got) != 0 {
		t.Errorf("after re-registration = %v; want no new enrollments", got)
	}
}

func TestCheckCutoff(t *testing.T) {
	start := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	cutoff := time.Hour

	tests := []struct {
		name    string
		now     time.Time
		admin   bool
		wantErr error
	}{
		{name: "well before start", now: start.Add(-3 * time.Hour), wantErr: nil},
		{name: "exactly at cutoff", now: start.Add(-time.Hour), wantErr: ErrRegistrationClosed},
		{name: "inside window", now: start.Add(-30 * time.Minute), wantErr: ErrRegistrationClosed},
		{name: "after start", now: start.Add(10 * time.Minute), wantErr: ErrRegistrationClosed},
		{name: "admin bypasses window", now: start.Add(-30 * time.Minute), admin: true, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckCutoff(tt.now, start, cutoff, tt.admin); err != tt.wantErr {
				t.Errorf("CheckCutoff = %v; want %v", err, tt.wantErr)
			}
		})
	}
}
