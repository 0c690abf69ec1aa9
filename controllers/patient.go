package controllers

import (
	"encoding/json"
	"net/http"

	"HealthLife/models"
	"HealthLife/services"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	svc *services.PatientService
}

func NewPatientController(svc *services.PatientService) *PatientController {
	return &PatientController{svc: svc}
}

func (h *PatientController) Routes(group *gin.RouterGroup) {
	group.GET("/profile", h.Profile)
	group.PATCH("/profile", h.UpdateProfile)
}

func (h *PatientController) Profile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	patient, err := h.svc.Profile(c.Request.Context(), id.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"userData": patient}))
}

/*
* Bind the multipart form, address arrives as a json string
* Open the optional image and pass everything to the service
 */
func (h *PatientController) UpdateProfile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var form models.PatientProfileForm
	if err := c.ShouldBind(&form); err != nil {
		util.Fail(c, util.BadRequest(util.MISSING_REQUIRED_FIELDS))
		return
	}
	update := models.PatientProfileUpdate{Name: form.Name, Phone: form.Phone, DOB: form.DOB, Gender: form.Gender}
	if form.Address != "" {
		var address models.Address
		if err := json.Unmarshal([]byte(form.Address), &address); err != nil {
			util.Fail(c, util.BadRequest(util.INVALID_ADDRESS))
			return
		}
		update.Address = &address
	}
	img, closeImage, err := formImage(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	defer closeImage()

	patient, err := h.svc.UpdateProfile(c.Request.Context(), id.ID, update, img)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"message": util.PROFILE_UPDATED, "userData": patient}))
}
