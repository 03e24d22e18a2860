package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobspher/jobspher/internal/models"
	"github.com/jobspher/jobspher/internal/services"
	"github.com/jobspher/jobspher/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type applyRequest struct {
	JobID       string `json:"job_id"`
	ResumePath  string `json:"resume_path"`
	CoverLetter string `json:"cover_letter"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Apply", "invalid request body", err))
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), user, req.JobID, req.ResumePath, req.CoverLetter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	apps, err := h.svc.ListByApplicant(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	apps, err := h.svc.ListByJob(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

type updateStatusRequest struct {
	Status models.ApplicationStatus `json:"status"`
	Notes  string                   `json:"notes"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.UpdateStatus", "invalid request body", err))
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), user, req.Status, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
