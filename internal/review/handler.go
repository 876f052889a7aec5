package review

import (
	"net/http"

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

// @Summary      Submit a review
// @Description  Rate another profile, optionally tied to a completed booking
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body review.SubmitRequest true "Review payload"
// @Success      201 {object} review.Review
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /reviews [post]
func (h *Handler) Submit(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	rv, err := h.service.Submit(c.Request.Context(), identity, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rv)
}

// @Summary      Trainer rating
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        trainerID path string true "Trainer profile ID"
// @Success      200 {object} review.RatingSummary
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /trainers/{trainerID}/rating [get]
func (h *Handler) Rating(c *gin.Context) {
	summary, err := h.service.AverageRating(c.Request.Context(), c.Param("trainerID"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary      Reviews of a profile
// @Description  Newest first
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        profileID path string true "Profile ID"
// @Success      200 {array} review.Review
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /profiles/{profileID}/reviews [get]
func (h *Handler) List(c *gin.Context) {
	reviews, err := h.service.ListFor(c.Request.Context(), c.Param("profileID"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
