package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
)

func TestInitiatePaymentGuards(t *testing.T) {
	db := newTestDB(t)
	roster := services.NewRosterService(db, nil)
	h := NewPaymentHandler(db, roster, nil)

	member := models.Member{Name: "Player", Email: "player@club.test", FirebaseUID: "uid-player"}
	db.Create(&member)

	session := models.Session{
		Date:       time.Now().AddDate(0, 0, 7),
		IsActive:   true,
		CourtCount: 1,
		BaseCost:   130000,
	}
	db.Create(&session)

	sessionParam := fmt.Sprint(session.ID)

	t.Run("not registered", func(t *testing.T) {
		c, _ := newJSONContext(t, services.Actor{MemberID: member.ID}, sessionParam, "")
		err := h.InitiatePayment(c)
		if code := httpStatus(t, err); code != http.StatusBadRequest {
			t.Errorf("InitiatePayment without attendance = %d; want %d", code, http.StatusBadRequest)
		}
	})

	t.Run("already marked paid", func(t *testing.T) {
		// An earlier override set the flag; initiation must refuse before
		// touching the gateway even though the share is still positive.
		db.Create(&models.SessionMember{SessionID: session.ID, MemberID: member.ID, Slots: 1, Paid: true})

		c, _ := newJSONContext(t, services.Actor{MemberID: member.ID}, sessionParam, "")
		err := h.InitiatePayment(c)
		if code := httpStatus(t, err); code != http.StatusBadRequest {
			t.Fatalf("InitiatePayment on settled share = %d; want %d", code, http.StatusBadRequest)
		}
		he := err.(*echo.HTTPError)
		if he.Message != "Share is already marked paid" {
			t.Errorf("message = %v; want the settled-share refusal", he.Message)
		}
	})
}
