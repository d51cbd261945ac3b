package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
)

type SessionHandler struct {
	db       *gorm.DB
	roster   *services.RosterService
	schedule *services.ScheduleService
}

func NewSessionHandler(db *gorm.DB, roster *services.RosterService, schedule *services.ScheduleService) *SessionHandler {
	return &SessionHandler{db: db, roster: roster, schedule: schedule}
}

// ListSessions returns sessions for a month (default: current month)
func (h *SessionHandler) ListSessions(c echo.Context) error {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())
	if v, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		year = v
	}
	if v, err := strconv.Atoi(c.QueryParam("month")); err == nil && v >= 1 && v <= 12 {
		month = v
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	query := h.db.Where("date >= ? AND date < ?", from, to).Order("date asc")
	if c.QueryParam("include_canceled") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var sessions []models.Session
	if err := query.Find(&sessions).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch sessions")
	}

	return c.JSON(http.StatusOK, sessions)
}

// GetSession returns one session with its full billing breakdown
func (h *SessionHandler) GetSession(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var session models.Session
	if err := h.db.Preload("Members.Member").Preload("Expenses.LoggedBy").First(&session, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Session not found")
	}

	shares, err := h.roster.Shares(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session": session,
		"shares":  shares,
	})
}

// Register adds the caller (or, for admins, any member) to a session
func (h *SessionHandler) Register(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		MemberID uint `json:"member_id"`
		Slots    int  `json:"slots"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if body.MemberID == 0 {
		body.MemberID = actor.MemberID
	}
	if body.Slots == 0 {
		body.Slots = 1
	}

	if err := h.roster.Register(c.Request().Context(), actor, id, body.MemberID, body.Slots); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "registered"})
}

// Withdraw removes the caller (or, for admins, any member) from a session
func (h *SessionHandler) Withdraw(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	memberID := actor.MemberID
	if v, err := strconv.ParseUint(c.QueryParam("member_id"), 10, 32); err == nil && v > 0 {
		memberID = uint(v)
	}

	if err := h.roster.Withdraw(c.Request().Context(), actor, id, memberID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "withdrawn"})
}

// CancelSession soft-cancels a session (admin only, active=false)
func (h *SessionHandler) CancelSession(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res := h.db.Model(&models.Session{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to cancel session")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Session not found")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "canceled"})
}

// GenerateMonth creates next month's sessions from the schedule rule
// (admin only)
func (h *SessionHandler) GenerateMonth(c echo.Context) error {
	var body struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if body.Year == 0 || body.Month < 1 || body.Month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "year and month are required")
	}

	created, err := h.schedule.GenerateMonth(c.Request().Context(), body.Year, time.Month(body.Month))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate sessions: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"created": created})
}

// AutoEnroll reconciles core-member enrollment for one session. Safe to
// call repeatedly.
func (h *SessionHandler) AutoEnroll(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	created, err := h.roster.AutoEnrollCoreMembers(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"enrolled": created})
}
