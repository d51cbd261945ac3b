package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
)

const actorContextKey = "actor"

// RequireAuth returns a middleware that verifies Firebase session cookies
// and resolves the caller to a club member. The resulting Actor is stored
// in the request context and passed explicitly into services.
func RequireAuth(authClient *auth.Client, db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Check if Firebase is initialized
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Authentication is not configured")
			}

			// Get the session cookie
			cookie, err := c.Cookie("session")
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue")
			}

			// Verify the session cookie
			decodedToken, err := authClient.VerifySessionCookie(c.Request().Context(), cookie.Value)
			if err != nil {
				// Invalid session, clear cookie
				clearCookie := &http.Cookie{
					Name:     "session",
					Value:    "",
					MaxAge:   -1,
					HttpOnly: true,
					Path:     "/",
				}
				c.SetCookie(clearCookie)
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired, please log in again")
			}

			var member models.Member
			if err := db.Where("firebase_uid = ?", decodedToken.UID).First(&member).Error; err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "No member profile for this account")
			}

			c.Set(actorContextKey, services.Actor{
				MemberID: member.ID,
				UID:      decodedToken.UID,
				Email:    member.Email,
				IsAdmin:  member.IsAdmin,
			})

			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin actors. Must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := c.Get(actorContextKey).(services.Actor)
			if !ok || !actor.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

// ActorFrom extracts the Actor placed by RequireAuth.
func ActorFrom(c echo.Context) (services.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(services.Actor)
	return actor, ok
}
