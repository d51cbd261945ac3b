package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shuttleclub/internal/models"
	"shuttleclub/internal/services"
)

type MemberHandler struct {
	db     *gorm.DB
	roster *services.RosterService
}

func NewMemberHandler(db *gorm.DB, roster *services.RosterService) *MemberHandler {
	return &MemberHandler{db: db, roster: roster}
}

// ListMembers returns all members with their core flag
func (h *MemberHandler) ListMembers(c echo.Context) error {
	var members []models.Member
	if err := h.db.Find(&members).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch members")
	}

	coreSet, err := h.roster.CoreMemberIDs(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch core members")
	}

	type memberView struct {
		models.Member
		IsCore bool `json:"is_core"`
	}
	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, memberView{Member: m, IsCore: coreSet[m.ID]})
	}

	return c.JSON(http.StatusOK, views)
}

// SetCore adds or removes a member from the core set (admin only)
func (h *MemberHandler) SetCore(c echo.Context) error {
	memberID, err := paramID(c, "member_id")
	if err != nil {
		return err
	}

	var body struct {
		Core bool `json:"core"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var member models.Member
	if err := h.db.First(&member, memberID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Member not found")
	}

	if body.Core {
		row := models.CoreMember{MemberID: memberID}
		if err := h.db.Where("member_id = ?", memberID).FirstOrCreate(&row).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add core member")
		}
	} else {
		if err := h.db.Where("member_id = ?", memberID).Delete(&models.CoreMember{}).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove core member")
		}
	}

	h.roster.InvalidateCoreCache(c.Request().Context())

	return c.JSON(http.StatusOK, map[string]interface{}{"member_id": memberID, "core": body.Core})
}

// SetBanned toggles the banned flag (admin only)
func (h *MemberHandler) SetBanned(c echo.Context) error {
	memberID, err := paramID(c, "member_id")
	if err != nil {
		return err
	}

	var body struct {
		Banned bool `json:"banned"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	res := h.db.Model(&models.Member{}).Where("id = ?", memberID).Update("is_banned", body.Banned)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update member")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Member not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"member_id": memberID, "banned": body.Banned})
}

// GetSettings returns the club settings
func (h *MemberHandler) GetSettings(c echo.Context) error {
	settings, err := h.roster.Settings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings upserts the club settings row (admin only)
func (h *MemberHandler) UpdateSettings(c echo.Context) error {
	var body models.ClubSettings
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if body.RegistrationCutoffMinutes < 0 || body.DefaultBaseCost < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Settings values must be non-negative")
	}

	var existing models.ClubSettings
	err := h.db.First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := h.db.Create(&body).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create settings")
		}
		return c.JSON(http.StatusOK, body)
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load settings")
	}

	body.ID = existing.ID
	if err := h.db.Save(&body).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update settings")
	}

	return c.JSON(http.StatusOK, body)
}
