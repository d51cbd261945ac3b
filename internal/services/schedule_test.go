package services

import (
	"testing"
	"time"

	"shuttleclub/internal/models"
)

func TestSessionsForMonth(t *testing.T) {
	settings := models.ClubSettings{
		ScheduleRule:      "FREQ=WEEKLY;BYDAY=TU,FR",
		StartMinute:       19 * 60,
		EndMinute:         21 * 60,
		DefaultCourtCount: 2,
		DefaultBaseCost:   260000,
		DefaultMaxMembers: 16,
	}

	// March 2026: Tuesdays 3,10,17,24,31 and Fridays 6,13,20,27.
	sessions, err := SessionsForMonth(settings, 2026, time.March, time.UTC)
	if err != nil {
		t.Fatalf("SessionsForMonth returned error: %v", err)
	}
	if len(sessions) != 9 {
		t.Fatalf("got %d sessions; want 9", len(sessions))
	}

	for _, s := range sessions {
		wd := s.Date.Weekday()
		if wd != time.Tuesday && wd != time.Friday {
			t.Errorf("session on %s falls on %s; want Tuesday or Friday", s.Date.Format("2006-01-02"), wd)
		}
		if s.StartTime.Hour() != 19 || s.EndTime.Hour() != 21 {
			t.Errorf("session window %v-%v; want 19:00-21:00", s.StartTime, s.EndTime)
		}
		if !s.IsActive {
			t.Error("generated session should be active")
		}
		if s.CourtCount != 2 || s.BaseCost != 260000 || s.MaxMembers != 16 {
			t.Errorf("session defaults not applied: %+v", s)
		}
	}

	first := sessions[0]
	if got := first.Date.Format("2006-01-02"); got != "2026-03-03" {
		t.Errorf("first session on %s; want 2026-03-03", got)
	}
}

func TestSessionsForMonthMissingRule(t *testing.T) {
	_, err := SessionsForMonth(models.ClubSettings{}, 2026, time.March, time.UTC)
	if err == nil {
		t.Fatal("expected error for empty schedule rule")
	}
}

func TestSessionsForMonthBadRule(t *testing.T) {
	settings := models.ClubSettings{ScheduleRule: "FREQ=NONSENSE"}
	_, err := SessionsForMonth(settings, 2026, time.March, time.UTC)
	if err == nil {
		t.Fatal("expected error for invalid schedule rule")
	}
}
