package booking

import (
	"net/http"
	"time"

	"gymconnect/internal/api"
	"gymconnect/internal/apperr"
	"gymconnect/internal/auth"
	"gymconnect/internal/slot"

	"github.com/gin-gonic/gin"
)

const statsDefaultDays = 30

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Request a booking
// @Description  User-only: request a session with a trainer. The booking starts as pending.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CreateRequest true "Booking payload"
// @Success      201 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// @Summary      List my bookings
// @Description  Bookings where the caller is a participant, newest session first
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        role query string false "Side of the booking (user|trainer)"
// @Param        status query string false "Filter by status"
// @Success      200 {array} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) List(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	filter := ListFilter{ProfileID: identity.ProfileID}

	switch c.Query("role") {
	case "":
	case "user":
		p := PartyUser
		filter.Role = &p
	case "trainer":
		p := PartyTrainer
		filter.Role = &p
	default:
		api.BadRequest(c, "role must be user or trainer")
		return
	}

	if s := c.Query("status"); s != "" {
		status, err := ParseStatus(s)
		if err != nil {
			api.RespondError(c, err)
			return
		}
		filter.Status = &status
	}

	bookings, err := h.service.ListFor(c.Request.Context(), filter)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path string true "Booking ID"
// @Success      200 {object} booking.Booking
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) Get(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	b, err := h.service.Get(c.Request.Context(), identity, c.Param("bookingID"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Change booking status
// @Description  Trainer confirms or completes; either participant cancels
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path string true "Booking ID"
// @Param        request body booking.TransitionRequest true "Target status"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{bookingID}/transition [post]
func (h *Handler) Transition(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	b, err := h.service.Transition(c.Request.Context(), identity, c.Param("bookingID"), Status(req.Status))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Check whether a slot is bookable
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path string true "Trainer profile ID"
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Param        start query string true "Start time (HH:MM)"
// @Param        end query string true "End time (HH:MM)"
// @Success      200 {object} booking.BookableResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers/{trainerID}/bookable [get]
func (h *Handler) Bookable(c *gin.Context) {
	date, err := slot.ParseDate(c.Query("date"))
	if err != nil {
		api.BadRequest(c, "date: "+err.Error())
		return
	}
	start, err := slot.ParseClock(c.Query("start"))
	if err != nil {
		api.BadRequest(c, "start: "+err.Error())
		return
	}
	end, err := slot.ParseClock(c.Query("end"))
	if err != nil {
		api.BadRequest(c, "end: "+err.Error())
		return
	}

	err = h.service.IsBookable(c.Request.Context(), c.Param("trainerID"), date, slot.Range{Start: start, End: end})
	if err == nil {
		c.JSON(http.StatusOK, BookableResponse{Bookable: true})
		return
	}

	switch code := apperr.CodeOf(err); code {
	case apperr.CodeOutsideAvailability, apperr.CodeSlotConflict:
		c.JSON(http.StatusOK, BookableResponse{Bookable: false, Code: string(code), Reason: apperr.PublicMessage(err)})
	default:
		api.RespondError(c, err)
	}
}

// @Summary      Booking statistics per day
// @Description  Trainer-only: counts of the caller's bookings per session date and status
// @Tags         trainer,analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date (YYYY-MM-DD), defaults to 30 days ago"
// @Param        to query string false "To date (YYYY-MM-DD), defaults to today"
// @Success      200 {array} booking.DayStats
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainer/analytics/bookings [get]
func (h *Handler) StatsByDay(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	to := slot.DateOf(time.Now().UTC())
	from := slot.DateOf(to.AddDate(0, 0, -statsDefaultDays))

	if s := c.Query("from"); s != "" {
		d, err := slot.ParseDate(s)
		if err != nil {
			api.BadRequest(c, "from: "+err.Error())
			return
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := slot.ParseDate(s)
		if err != nil {
			api.BadRequest(c, "to: "+err.Error())
			return
		}
		to = d
	}

	stats, err := h.service.StatsByDay(c.Request.Context(), identity, from, to)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
