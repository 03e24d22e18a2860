package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobspher/jobspher/internal/models"
	"github.com/jobspher/jobspher/internal/services"
	"github.com/jobspher/jobspher/internal/utils"
)

type PaymentHandler struct {
	svc services.PaymentService
}

func NewPaymentHandler(svc services.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type uploadPaymentRequest struct {
	FilePath        string `json:"file_path"`
	ReferenceNumber string `json:"reference_number"`
}

// Upload registers an already-stored proof file for review. The file
// itself goes through the files endpoint first.
func (h *PaymentHandler) Upload(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req uploadPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PaymentHandler.Upload", "invalid request body", err))
		return
	}

	payment, err := h.svc.Upload(c.Request.Context(), user, req.FilePath, req.ReferenceNumber)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) ListMine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	payments, err := h.svc.ListByEmployer(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// Latest backs the employer's status badge.
func (h *PaymentHandler) Latest(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	payment, err := h.svc.LatestByEmployer(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// Admin moderation surface.

func (h *PaymentHandler) ListPending(c *gin.Context) {
	payments, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

type reviewPaymentRequest struct {
	Status models.PaymentStatus `json:"status"`
	Notes  string               `json:"notes"`
}

func (h *PaymentHandler) Review(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req reviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PaymentHandler.Review", "invalid request body", err))
		return
	}

	payment, err := h.svc.Review(c.Request.Context(), c.Param("id"), user, req.Status, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
