package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
)

// newTestDB opens an in-memory database with the tables the roster,
// expense and payment paths touch.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Member{},
		&models.CoreMember{},
		&models.Session{},
		&models.SessionMember{},
		&models.SessionOptOut{},
		&models.ExtraExpense{},
		&models.ClubSettings{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// newJSONContext builds an echo context carrying an authenticated actor,
// a JSON body and the session id path parameter.
func newJSONContext(t *testing.T, actor services.Actor, sessionID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sessionID)
	c.Set("actor", actor)
	return c, rec
}

// httpStatus unwraps the status code of a handler error.
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}
