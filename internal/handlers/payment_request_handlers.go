package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
	"shuttleclub/internal/tasks"
)

type PaymentRequestHandler struct {
	db     *gorm.DB
	roster *services.RosterService
}

func NewPaymentRequestHandler(db *gorm.DB, roster *services.RosterService) *PaymentRequestHandler {
	return &PaymentRequestHandler{db: db, roster: roster}
}

// CreateRequest files a manual payment confirmation request for the
// caller's share of a session
func (h *PaymentRequestHandler) CreateRequest(c echo.Context) error {
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
		Notes  string  `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if body.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Amount must be positive")
	}

	var attendance models.SessionMember
	if err := h.db.Where("session_id = ? AND member_id = ?", sessionID, actor.MemberID).First(&attendance).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "You are not registered for this session")
	}

	request := models.PaymentRequest{
		Reference: uuid.New().String(),
		SessionID: sessionID,
		MemberID:  actor.MemberID,
		Amount:    body.Amount,
		Status:    models.PaymentRequestStatusPending,
		Notes:     body.Notes,
	}
	if err := h.db.Create(&request).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create payment request")
	}

	return c.JSON(http.StatusCreated, request)
}

// ListRequests returns payment requests, optionally filtered by status
// (admin only)
func (h *PaymentRequestHandler) ListRequests(c echo.Context) error {
	query := h.db.Preload("Member").Preload("Session").Order("created_at desc")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.PaymentRequest
	if err := query.Find(&requests).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch payment requests")
	}

	return c.JSON(http.StatusOK, requests)
}

// decide loads a pending request and applies a terminal transition.
func (h *PaymentRequestHandler) decide(c echo.Context, approve bool) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	requestID, err := paramID(c, "request_id")
	if err != nil {
		return err
	}

	var request models.PaymentRequest
	if err := h.db.Preload("Member").First(&request, requestID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Payment request not found")
	}
	if request.Status != models.PaymentRequestStatusPending {
		return echo.NewHTTPError(http.StatusBadRequest, "Payment request is already "+string(request.Status))
	}

	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.Bind(&body)

	now := time.Now()
	request.ProcessedByID = &actor.MemberID
	request.ProcessedAt = &now
	if body.Notes != "" {
		request.Notes = body.Notes
	}

	if approve {
		request.Status = models.PaymentRequestStatusApproved
	} else {
		request.Status = models.PaymentRequestStatusRejected
	}

	if err := h.db.Save(&request).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update payment request")
	}

	if approve {
		// Approval flips the paid flag through the explicit-override
		// path
		if err := h.roster.SetPaid(c.Request().Context(), request.SessionID, request.MemberID, true); err != nil {
			c.Logger().Errorf("failed to set paid after approval of request %d: %v", request.ID, err)
		}
	}

	h.notifyDecision(&request)

	return c.JSON(http.StatusOK, request)
}

// notifyDecision queues a notification email to the requester.
func (h *PaymentRequestHandler) notifyDecision(request *models.PaymentRequest) {
	if request.Member.Email == "" {
		return
	}

	subject := fmt.Sprintf("Payment request %s", request.Status)
	body := fmt.Sprintf("Your payment request of %.0f for session %d has been %s.",
		request.Amount, request.SessionID, request.Status)
	if request.Status == models.PaymentRequestStatusRejected && request.Notes != "" {
		body += " Notes: " + request.Notes
	}

	task, err := tasks.SendEmailTask.CreateTask(tasks.SendEmailArgs{
		To:      []string{request.Member.Email},
		Subject: subject,
		Body:    body,
	})
	if err == nil {
		h.db.Create(task)
	}
}

// ApproveRequest approves a pending payment request (admin only)
func (h *PaymentRequestHandler) ApproveRequest(c echo.Context) error {
	return h.decide(c, true)
}

// RejectRequest rejects a pending payment request (admin only)
func (h *PaymentRequestHandler) RejectRequest(c echo.Context) error {
	return h.decide(c, false)
}
