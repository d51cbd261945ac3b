package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
)

func TestCreateExpenseRequiresAttendance(t *testing.T) {
	db := newTestDB(t)
	roster := services.NewRosterService(db, nil)
	h := NewExpenseHandler(db, roster)

	attendee := models.Member{Name: "Attendee", Email: "attendee@club.test", FirebaseUID: "uid-attendee"}
	outsider := models.Member{Name: "Outsider", Email: "outsider@club.test", FirebaseUID: "uid-outsider"}
	db.Create(&attendee)
	db.Create(&outsider)

	session := models.Session{
		Date:       time.Now().AddDate(0, 0, 7),
		IsActive:   true,
		CourtCount: 1,
		BaseCost:   120000,
	}
	db.Create(&session)
	db.Create(&models.SessionMember{SessionID: session.ID, MemberID: attendee.ID, Slots: 1})

	sessionParam := fmt.Sprint(session.ID)
	body := `{"amount": 30000, "note": "shuttlecocks"}`

	t.Run("non-attendee is rejected", func(t *testing.T) {
		c, _ := newJSONContext(t, services.Actor{MemberID: outsider.ID}, sessionParam, body)
		err := h.CreateExpense(c)
		if code := httpStatus(t, err); code != http.StatusBadRequest {
			t.Errorf("CreateExpense by non-attendee = %d; want %d", code, http.StatusBadRequest)
		}
		var count int64
		db.Model(&models.ExtraExpense{}).Count(&count)
		if count != 0 {
			t.Errorf("expense rows after rejected create = %d; want 0", count)
		}
	})

	t.Run("attendee may log", func(t *testing.T) {
		c, rec := newJSONContext(t, services.Actor{MemberID: attendee.ID}, sessionParam, body)
		if err := h.CreateExpense(c); err != nil {
			t.Fatalf("CreateExpense by attendee = %v; want nil", err)
		}
		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusCreated)
		}
		var count int64
		db.Model(&models.ExtraExpense{}).Where("logged_by_id = ?", attendee.ID).Count(&count)
		if count != 1 {
			t.Errorf("expense rows for attendee = %d; want 1", count)
		}
	})
}
