package controllers

import (
	"net/http"

	"HealthLife/models"
	"HealthLife/services"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	svc *services.ContactService
}

func NewContactController(svc *services.ContactService) *ContactController {
	return &ContactController{svc: svc}
}

func (h *ContactController) Send(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.PROVIDE_VALID_DETAILS))
		return
	}
	if err := h.svc.Send(c.Request.Context(), req); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.CONTACT_SENT))
}
