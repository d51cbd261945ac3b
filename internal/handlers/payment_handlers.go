package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
	"shuttleclub/internal/tasks"
)

type PaymentHandler struct {
	db             *gorm.DB
	roster         *services.RosterService
	paymentService *services.PaymentService
}

func NewPaymentHandler(db *gorm.DB, roster *services.RosterService, paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, roster: roster, paymentService: paymentService}
}

// InitiatePayment starts a gateway payment for the caller's share of a
// session and schedules status polling
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var session models.Session
	if err := h.db.First(&session, sessionID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Session not found")
	}
	var member models.Member
	if err := h.db.First(&member, actor.MemberID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load member")
	}

	// A flag already set via the override path means nothing to collect,
	// even when the recomputed share would still be positive.
	var attendance models.SessionMember
	if err := h.db.Where("session_id = ? AND member_id = ?", sessionID, actor.MemberID).First(&attendance).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "You are not registered for this session")
	}
	if attendance.Paid {
		return echo.NewHTTPError(http.StatusBadRequest, "Share is already marked paid")
	}

	owed, err := h.roster.NetOwed(c.Request().Context(), sessionID, actor.MemberID)
	if err != nil {
		return httpError(err)
	}
	if owed <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing owed for this session")
	}

	forceNew := c.QueryParam("force_new") == "true"
	callbackURL := getEnv("APP_URL", "http://localhost:8080") + "/sessions/" + c.Param("id")

	result, err := h.paymentService.InitiatePayment(c.Request().Context(), &session, &member, owed, forceNew, callbackURL)
	if err != nil {
		if errors.Is(err, services.ErrPaymentAlreadyMade) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Payment is already made. Please check the status."})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to initiate payment: "+err.Error())
	}

	// Schedule gateway polling for new orders; an existing order already
	// has a poll chain running.
	if !result.IsExisting {
		if task, err := tasks.PollPaymentTask.CreateTask(result.OrderID); err == nil {
			if err := h.db.Create(task).Error; err != nil {
				c.Logger().Errorf("failed to enqueue poll task for %s: %v", result.OrderID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"order_id":     result.OrderID,
		"token":        result.Token,
		"redirect_url": result.RedirectURL,
		"is_existing":  result.IsExisting,
	})
}

// PaymentStatus polls the gateway once and reports whether the caller's
// order is resolved
func (h *PaymentHandler) PaymentStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	record, err := h.paymentService.CheckActiveSession(c.Request().Context(), sessionID, actor.MemberID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check payment session")
	}
	if record == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"active": false})
	}

	resolved, err := h.paymentService.PollOrder(c.Request().Context(), record.OrderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to poll order")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"active":   !resolved,
		"order_id": record.OrderID,
		"resolved": resolved,
	})
}

// Notification receives gateway callbacks. The webhook shares the same
// reconciliation path as the polling worker.
func (h *PaymentHandler) Notification(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read body")
	}

	var notif services.GatewayNotification
	if err := json.Unmarshal(raw, &notif); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification payload")
	}

	if err := h.paymentService.HandleCallback(c.Request().Context(), raw, notif); err != nil {
		if errors.Is(err, services.ErrBadSignature) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Signature verification failed")
		}
		if errors.Is(err, services.ErrAmountMismatch) {
			// Distinct non-retryable failure; acknowledged so the
			// gateway does not retry.
			return c.JSON(http.StatusOK, map[string]string{"status": "amount mismatch recorded"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process notification")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// TogglePaid sets a member's paid flag directly. This is the explicit
// override path: no recomputation happens. Members may toggle their own
// flag; admins anyone's.
func (h *PaymentHandler) TogglePaid(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		MemberID uint `json:"member_id"`
		Paid     bool `json:"paid"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if body.MemberID == 0 {
		body.MemberID = actor.MemberID
	}
	if !actor.IsAdmin && body.MemberID != actor.MemberID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot toggle another member's paid flag")
	}

	if err := h.roster.SetPaid(c.Request().Context(), sessionID, body.MemberID, body.Paid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update paid flag")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"paid": body.Paid})
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
