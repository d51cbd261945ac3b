package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"shuttleclub/internal/billing"
	"shuttleclub/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInactive = errors.New("session is canceled")
	ErrNotRegistered   = errors.New("member is not registered for this session")
	ErrForbidden       = errors.New("not allowed to perform this action")
	ErrMemberBanned    = errors.New("member is banned")
)

const coreMembersCacheKey = "core_members"

// RosterService maintains per-session attendance: registration with
// capacity and cutoff checks, withdrawal with core-member opt-outs, core
// auto-enrollment and the expense-triggered paid-flag reconciliation.
type RosterService struct {
	db    *gorm.DB
	cache *RedisCache
}

func NewRosterService(db *gorm.DB, cache *RedisCache) *RosterService {
	return &RosterService{db: db, cache: cache}
}

// CoreMemberIDs returns the current core-member set, cached briefly.
func (s *RosterService) CoreMemberIDs(ctx context.Context) (map[uint]bool, error) {
	ids, err := GetOrSet(s.cache, ctx, coreMembersCacheKey, 5*time.Minute, func() ([]uint, error) {
		var rows []models.CoreMember
		if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.MemberID)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// IsCoreMember reports whether the member belongs to the core set.
func (s *RosterService) IsCoreMember(ctx context.Context, memberID uint) (bool, error) {
	set, err := s.CoreMemberIDs(ctx)
	if err != nil {
		return false, err
	}
	return set[memberID], nil
}

// InvalidateCoreCache drops the cached core-member set. Called after an
// admin toggles core membership.
func (s *RosterService) InvalidateCoreCache(ctx context.Context) {
	_ = s.cache.Delete(ctx, coreMembersCacheKey)
}

// Settings loads the club settings row, falling back to defaults when
// none exists yet.
func (s *RosterService) Settings(ctx context.Context) (models.ClubSettings, error) {
	var settings models.ClubSettings
	err := s.db.WithContext(ctx).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ClubSettings{RegistrationCutoffMinutes: 60, DefaultCourtCount: 1}, nil
		}
		return settings, err
	}
	return settings, nil
}

func (s *RosterService) activeSession(ctx context.Context, sessionID uint) (models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session, ErrSessionNotFound
		}
		return session, err
	}
	if !session.IsActive {
		return session, ErrSessionInactive
	}
	return session, nil
}

// Register adds an attendance record for memberID with the given slot
// count. Non-admins can only register themselves, are bound by the
// cutoff window, and are rejected when banned. Registering clears a
// previous core-member opt-out for the session.
func (s *RosterService) Register(ctx context.Context, actor Actor, sessionID, memberID uint, slots int) error {
	if err := billing.CheckSlots(slots); err != nil {
		return err
	}
	if !actor.IsAdmin && actor.MemberID != memberID {
		return ErrForbidden
	}

	var member models.Member
	if err := s.db.WithContext(ctx).First(&member, memberID).Error; err != nil {
		return fmt.Errorf("failed to load member: %w", err)
	}
	if member.IsBanned {
		return ErrMemberBanned
	}

	session, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return err
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cutoff := time.Duration(settings.RegistrationCutoffMinutes) * time.Minute
	if err := billing.CheckCutoff(time.Now(), session.StartTime, cutoff, actor.IsAdmin); err != nil {
		return err
	}

	var existing models.SessionMember
	err = s.db.WithContext(ctx).
		Where("session_id = ? AND member_id = ?", sessionID, memberID).
		First(&existing).Error
	if err == nil {
		return billing.ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var currentSlots int64
	s.db.WithContext(ctx).Model(&models.SessionMember{}).
		Where("session_id = ?", sessionID).
		Select("COALESCE(SUM(slots), 0)").
		Scan(&currentSlots)
	if err := billing.CheckCapacity(int(currentSlots), slots, session.MaxMembers); err != nil {
		return err
	}

	attendance := models.SessionMember{
		SessionID: sessionID,
		MemberID:  memberID,
		Slots:     slots,
		Paid:      false,
	}
	if err := s.db.WithContext(ctx).Create(&attendance).Error; err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}

	// A returning core member is no longer opted out.
	s.db.WithContext(ctx).
		Where("session_id = ? AND member_id = ?", sessionID, memberID).
		Delete(&models.SessionOptOut{})

	return nil
}

// Withdraw removes the attendance record and its paid state. Core
// members get an opt-out row so the next auto-enrollment pass does not
// silently re-add them.
func (s *RosterService) Withdraw(ctx context.Context, actor Actor, sessionID, memberID uint) error {
	if !actor.IsAdmin && actor.MemberID != memberID {
		return ErrForbidden
	}

	session, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return err
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	cutoff := time.Duration(settings.RegistrationCutoffMinutes) * time.Minute
	if err := billing.CheckCutoff(time.Now(), session.StartTime, cutoff, actor.IsAdmin); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("session_id = ? AND member_id = ?", sessionID, memberID).
		Delete(&models.SessionMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotRegistered
	}

	core, err := s.IsCoreMember(ctx, memberID)
	if err != nil {
		return err
	}
	if core {
		optOut := models.SessionOptOut{SessionID: sessionID, MemberID: memberID}
		s.db.WithContext(ctx).
			Where("session_id = ? AND member_id = ?", sessionID, memberID).
			FirstOrCreate(&optOut)
	}

	return nil
}

// AutoEnrollCoreMembers creates an attendance record with one slot for
// every core member not already attending and not opted out of this
// session. Running it twice changes nothing: the unique session+member
// constraint blocks duplicates and opt-outs are respected.
func (s *RosterService) AutoEnrollCoreMembers(ctx context.Context, sessionID uint) (int, error) {
	if _, err := s.activeSession(ctx, sessionID); err != nil {
		return 0, err
	}

	coreSet, err := s.CoreMemberIDs(ctx)
	if err != nil {
		return 0, err
	}

	var attending []models.SessionMember
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&attending).Error; err != nil {
		return 0, err
	}
	attendingSet := make(map[uint]bool, len(attending))
	for _, a := range attending {
		attendingSet[a.MemberID] = true
	}

	var optOuts []models.SessionOptOut
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&optOuts).Error; err != nil {
		return 0, err
	}
	optOutSet := make(map[uint]bool, len(optOuts))
	for _, o := range optOuts {
		optOutSet[o.MemberID] = true
	}

	created := 0
	for _, memberID := range billing.EnrollmentCandidates(coreSet, attendingSet, optOutSet) {
		attendance := models.SessionMember{
			SessionID: sessionID,
			MemberID:  memberID,
			Slots:     1,
			Paid:      false,
		}
		res := s.db.WithContext(ctx).
			Where("session_id = ? AND member_id = ?", sessionID, memberID).
			FirstOrCreate(&attendance)
		if res.Error != nil {
			return created, res.Error
		}
		if res.RowsAffected > 0 {
			created++
		}
	}

	return created, nil
}

// sessionState loads everything the allocator needs for one session.
func (s *RosterService) sessionState(ctx context.Context, sessionID uint) (billing.SessionCost, []billing.Expense, []billing.Attendee, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.SessionCost{}, nil, nil, ErrSessionNotFound
		}
		return billing.SessionCost{}, nil, nil, err
	}
	cost := billing.SessionCost{BaseCost: session.BaseCost, CourtCount: session.CourtCount}

	var expenseRows []models.ExtraExpense
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&expenseRows).Error; err != nil {
		return cost, nil, nil, err
	}
	expenses := make([]billing.Expense, 0, len(expenseRows))
	for _, e := range expenseRows {
		expenses = append(expenses, billing.Expense{LoggedByID: e.LoggedByID, Amount: e.Amount})
	}

	coreSet, err := s.CoreMemberIDs(ctx)
	if err != nil {
		return cost, nil, nil, err
	}

	var attendanceRows []models.SessionMember
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&attendanceRows).Error; err != nil {
		return cost, nil, nil, err
	}
	attendees := make([]billing.Attendee, 0, len(attendanceRows))
	for _, a := range attendanceRows {
		attendees = append(attendees, billing.Attendee{
			MemberID: a.MemberID,
			Slots:    a.Slots,
			Core:     coreSet[a.MemberID],
			Paid:     a.Paid,
		})
	}

	return cost, expenses, attendees, nil
}

// Reconcile recomputes the paid flag for one member from current session
// state. A member no longer attending, or a concurrent removal of the
// attendance row, makes this a no-op rather than an error.
func (s *RosterService) Reconcile(ctx context.Context, sessionID, memberID uint) error {
	cost, expenses, attendees, err := s.sessionState(ctx, sessionID)
	if err != nil {
		return err
	}

	paid, attending := billing.Covered(cost, expenses, attendees, memberID)
	if !attending {
		return nil
	}

	// Zero rows affected means the record went away between compute and
	// persist; accepted as a no-op.
	return s.db.WithContext(ctx).Model(&models.SessionMember{}).
		Where("session_id = ? AND member_id = ?", sessionID, memberID).
		Update("paid", paid).Error
}

// SetPaid is the explicit override path: the flag is written as-is with
// no recomputation. Used by admin toggles, approved payment requests and
// settled gateway payments.
func (s *RosterService) SetPaid(ctx context.Context, sessionID, memberID uint, paid bool) error {
	return s.db.WithContext(ctx).Model(&models.SessionMember{}).
		Where("session_id = ? AND member_id = ?", sessionID, memberID).
		Update("paid", paid).Error
}

// MemberShare holds the externally observable billing state of one
// attendee.
type MemberShare struct {
	MemberID   uint    `json:"member_id"`
	Slots      int     `json:"slots"`
	Core       bool    `json:"core"`
	Paid       bool    `json:"paid"`
	Share      float64 `json:"share"`
	SelfLogged float64 `json:"self_logged"`
	NetOwed    float64 `json:"net_owed"`
}

// Shares computes the full per-member breakdown for a session.
func (s *RosterService) Shares(ctx context.Context, sessionID uint) ([]MemberShare, error) {
	cost, expenses, attendees, err := s.sessionState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	shares := make([]MemberShare, 0, len(attendees))
	for _, a := range attendees {
		shares = append(shares, MemberShare{
			MemberID:   a.MemberID,
			Slots:      a.Slots,
			Core:       a.Core,
			Paid:       a.Paid,
			Share:      billing.Share(cost, expenses, attendees, a.MemberID),
			SelfLogged: billing.SelfLogged(expenses, a.MemberID),
			NetOwed:    billing.NetOwed(cost, expenses, attendees, a.MemberID),
		})
	}
	return shares, nil
}

// NetOwed computes the signed amount one member owes for a session.
func (s *RosterService) NetOwed(ctx context.Context, sessionID, memberID uint) (float64, error) {
	cost, expenses, attendees, err := s.sessionState(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return billing.NetOwed(cost, expenses, attendees, memberID), nil
}
