package handlers

import (
	"net/http"

	"slotbook/models"
	"slotbook/services/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	ReviewService review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{ReviewService: svc}
}

// ListMasterReviewsHandler handles GET /reviews/master/:id.
func (h *ReviewHandler) ListMasterReviewsHandler(c *gin.Context) {
	reviews, err := h.ReviewService.ListByMaster(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// CreateReviewHandler handles POST /reviews/.
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rv, err := h.ReviewService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// UpdateReviewHandler handles PUT /reviews/:id.
func (h *ReviewHandler) UpdateReviewHandler(c *gin.Context) {
	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rv, err := h.ReviewService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}

// DeleteReviewHandler handles DELETE /reviews/:id.
func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	if err := h.ReviewService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
