package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobspher/jobspher/internal/services"
	"github.com/jobspher/jobspher/internal/utils"
)

type CompanyHandler struct {
	svc services.CompanyService
}

func NewCompanyHandler(svc services.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

func (h *CompanyHandler) Register(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req services.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CompanyHandler.Register", "invalid request body", err))
		return
	}

	company, err := h.svc.Register(c.Request.Context(), user, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) Me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	company, err := h.svc.GetByEmployer(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req services.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CompanyHandler.Update", "invalid request body", err))
		return
	}

	company, err := h.svc.Update(c.Request.Context(), user, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}
