package availability

import (
	"net/http"
	"strconv"
	"time"

	"gymconnect/internal/api"
	"gymconnect/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      List a trainer's availability
// @Description  Weekly recurring windows. Pass day (0=Sunday..6=Saturday) to narrow to one weekday.
// @Tags         availability
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path string true "Trainer profile ID"
// @Param        day query int false "Day of week"
// @Success      200 {array} availability.Window
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers/{trainerID}/availability [get]
func (h *Handler) ListWindows(c *gin.Context) {
	trainerID := c.Param("trainerID")
	ctx := c.Request.Context()

	if dayStr := c.Query("day"); dayStr != "" {
		day, err := parseDay(dayStr)
		if err != nil {
			api.BadRequest(c, "Invalid day of week")
			return
		}
		windows, err := h.service.WindowsFor(ctx, trainerID, day)
		if err != nil {
			api.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, windows)
		return
	}

	windows, err := h.service.ListForTrainer(ctx, trainerID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, windows)
}

// @Summary      Replace availability for one weekday
// @Description  Trainer-only: replaces all of the caller's windows on the given weekday
// @Tags         availability
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        day path int true "Day of week (0=Sunday..6=Saturday)"
// @Param        request body availability.ReplaceDayRequest true "Windows"
// @Success      200 {array} availability.Window
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /availability/{day} [put]
func (h *Handler) ReplaceDay(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		api.BadRequest(c, "Invalid day of week")
		return
	}

	var req ReplaceDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	windows, err := h.service.ReplaceDay(c.Request.Context(), identity, day, req.Windows)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, windows)
}

func parseDay(s string) (time.Weekday, error) {
	day, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if day < int(time.Sunday) || day > int(time.Saturday) {
		return 0, strconv.ErrRange
	}
	return time.Weekday(day), nil
}
