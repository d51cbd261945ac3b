package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"

	"shuttleclub/internal/models"
)

// SessionsForMonth expands the club's RRULE schedule into Session rows
// for one calendar month. Pure: nothing is persisted here.
func SessionsForMonth(settings models.ClubSettings, year int, month time.Month, loc *time.Location) ([]models.Session, error) {
	if settings.ScheduleRule == "" {
		return nil, fmt.Errorf("club schedule rule is not configured")
	}

	rule, err := rrule.StrToRRule(settings.ScheduleRule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule rule %q: %w", settings.ScheduleRule, err)
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	rule.DTStart(monthStart)

	var sessions []models.Session
	for _, day := range rule.Between(monthStart, monthEnd, true) {
		start := day.Add(time.Duration(settings.StartMinute) * time.Minute)
		end := day.Add(time.Duration(settings.EndMinute) * time.Minute)

		sessions = append(sessions, models.Session{
			Date:       time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
			StartTime:  start,
			EndTime:    end,
			IsActive:   true,
			CourtCount: settings.DefaultCourtCount,
			BaseCost:   settings.DefaultBaseCost,
			MaxMembers: settings.DefaultMaxMembers,
		})
	}

	return sessions, nil
}

// ScheduleService generates the monthly session batch and enrolls core
// members into each new session.
type ScheduleService struct {
	db     *gorm.DB
	roster *RosterService
}

func NewScheduleService(db *gorm.DB, roster *RosterService) *ScheduleService {
	return &ScheduleService{db: db, roster: roster}
}

// GenerateMonth creates sessions for the given month, skipping dates
// that already have one, then auto-enrolls core members. Re-running it
// for the same month only fills gaps.
func (s *ScheduleService) GenerateMonth(ctx context.Context, year int, month time.Month) (int, error) {
	settings, err := s.roster.Settings(ctx)
	if err != nil {
		return 0, err
	}

	sessions, err := SessionsForMonth(settings, year, month, time.Local)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, session := range sessions {
		var count int64
		s.db.WithContext(ctx).Model(&models.Session{}).
			Where("date = ?", session.Date).
			Count(&count)
		if count > 0 {
			continue
		}

		if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
			return created, fmt.Errorf("failed to create session for %s: %w", session.Date.Format("2006-01-02"), err)
		}
		created++

		if _, err := s.roster.AutoEnrollCoreMembers(ctx, session.ID); err != nil {
			return created, fmt.Errorf("failed to auto-enroll core members for session %d: %w", session.ID, err)
		}
	}

	return created, nil
}
