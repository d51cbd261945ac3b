package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
)

type ExpenseHandler struct {
	db     *gorm.DB
	roster *services.RosterService
}

func NewExpenseHandler(db *gorm.DB, roster *services.RosterService) *ExpenseHandler {
	return &ExpenseHandler{db: db, roster: roster}
}

// CreateExpense logs an extra expense against a session and reconciles
// the logger's paid flag
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if body.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Amount must be positive")
	}

	var session models.Session
	if err := h.db.First(&session, sessionID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Session not found")
	}
	if !session.IsActive {
		return echo.NewHTTPError(http.StatusBadRequest, "Session is canceled")
	}

	var member models.Member
	if err := h.db.First(&member, actor.MemberID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load member")
	}
	if member.IsBanned {
		return echo.NewHTTPError(http.StatusForbidden, "This account is banned")
	}

	// Only attendees may log expenses: a non-attendee's expense would
	// inflate every share while their own credit never applies.
	var attendance models.SessionMember
	if err := h.db.Where("session_id = ? AND member_id = ?", sessionID, actor.MemberID).First(&attendance).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "You are not registered for this session")
	}

	expense := models.ExtraExpense{
		SessionID:  sessionID,
		LoggedByID: actor.MemberID,
		Amount:     body.Amount,
		Note:       body.Note,
	}
	if err := h.db.Create(&expense).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create expense")
	}

	// Expense-triggered recomputation for the logger. A failure here
	// leaves the flag stale until the next recomputation; no rollback.
	if err := h.roster.Reconcile(c.Request().Context(), sessionID, actor.MemberID); err != nil {
		c.Logger().Errorf("reconcile after expense create failed: %v", err)
	}

	return c.JSON(http.StatusCreated, expense)
}

// DeleteExpense removes an expense (creator only) and reconciles the
// creator's paid flag
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	expenseID, err := paramID(c, "expense_id")
	if err != nil {
		return err
	}

	var expense models.ExtraExpense
	if err := h.db.First(&expense, expenseID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Expense not found")
	}
	if expense.LoggedByID != actor.MemberID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the creator can delete an expense")
	}

	if err := h.db.Delete(&expense).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete expense")
	}

	if err := h.roster.Reconcile(c.Request().Context(), expense.SessionID, actor.MemberID); err != nil {
		c.Logger().Errorf("reconcile after expense delete failed: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
