package subscription

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

// @Summary      Issue a membership
// @Description  Gym owner only: create a subscription for a user at the caller's gym
// @Tags         gym,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.CreateRequest true "Subscription payload"
// @Success      201 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gym/subscriptions [post]
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

	sub, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// @Summary      List the gym's memberships
// @Tags         gym,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.WithSubscriber
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gym/subscriptions [get]
func (h *Handler) ListForGym(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	subs, err := h.service.ListForGym(c.Request.Context(), identity)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      List my memberships
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.Subscription
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /subscriptions [get]
func (h *Handler) ListMy(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	subs, err := h.service.ListForUser(c.Request.Context(), identity)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      Cancel a membership
// @Description  The subscriber or the issuing gym may cancel an active subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subscriptionID path string true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /subscriptions/{subscriptionID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized"})
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), identity, c.Param("subscriptionID"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Membership plans
// @Tags         subscriptions
// @Produce      json
// @Success      200 {array} subscription.Plan
// @Router       /subscriptions/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Plans())
}
