package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/services"
	"github.com/jobspher/jobspher/internal/utils"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// Search is the public board: ACTIVE jobs only, optional filters.
func (h *JobHandler) Search(c *gin.Context) {
	filters := pgrepo.JobFilters{
		Keyword:   c.Query("keyword"),
		Category:  c.Query("category"),
		Location:  c.Query("location"),
		MinSalary: queryFloat(c, "min_salary"),
		MaxSalary: queryFloat(c, "max_salary"),
	}

	res, err := h.svc.Search(c.Request.Context(), filters, queryInt(c, "page", 1), queryInt(c, "size", 20))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Create", "invalid request body", err))
		return
	}

	job, err := h.svc.Create(c.Request.Context(), user, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) ListMine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	jobs, err := h.svc.ListByEmployer(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Close(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	job, err := h.svc.Close(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// Admin moderation surface.

func (h *JobHandler) ListPending(c *gin.Context) {
	jobs, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Approve(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	job, err := h.svc.Approve(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

type rejectJobRequest struct {
	Reason string `json:"reason"`
}

func (h *JobHandler) Reject(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req rejectJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Reject", "invalid request body", err))
		return
	}

	job, err := h.svc.Reject(c.Request.Context(), c.Param("id"), user, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}
