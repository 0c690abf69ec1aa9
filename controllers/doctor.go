package controllers

import (
	"net/http"

	"HealthLife/models"
	"HealthLife/services"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
)

type DoctorController struct {
	svc *services.DoctorService
}

func NewDoctorController(svc *services.DoctorService) *DoctorController {
	return &DoctorController{svc: svc}
}

func (h *DoctorController) PublicRoutes(group *gin.RouterGroup) {
	group.GET("/list", h.List)
	group.GET("/public-profile/:id", h.PublicProfile)
}

func (h *DoctorController) Routes(group *gin.RouterGroup) {
	group.GET("/profile", h.Profile)
	group.PATCH("/profile", h.UpdateProfile)
	group.PATCH("/availability", h.ToggleAvailability)
	group.GET("/dashboard", h.Dashboard)
}

func (h *DoctorController) List(c *gin.Context) {
	doctors, err := h.svc.PublicList(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"doctors": doctors}))
}

func (h *DoctorController) PublicProfile(c *gin.Context) {
	doctor, err := h.svc.PublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"profileData": doctor}))
}

func (h *DoctorController) Profile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	doctor, err := h.svc.Profile(c.Request.Context(), id.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"profileData": doctor}))
}

/*
* Bind the multipart form, name is not editable by the doctor
* Open the optional image
* Update and mark the profile complete
 */
func (h *DoctorController) UpdateProfile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var form models.DoctorProfileForm
	if err := c.ShouldBind(&form); err != nil {
		util.Fail(c, util.BadRequest(util.PROVIDE_VALID_DETAILS))
		return
	}
	img, closeImage, err := formImage(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	defer closeImage()

	update := doctorUpdate(form)
	update.Name = nil
	update.MarkComplete = true
	doctor, err := h.svc.UpdateProfile(c.Request.Context(), id.ID, update, img)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"message": util.PROFILE_UPDATED, "profileData": doctor}))
}

func (h *DoctorController) ToggleAvailability(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	doctor, err := h.svc.ToggleAvailability(c.Request.Context(), id.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"message": util.AVAILABILITY_CHANGED, "available": doctor.Available}))
}

func (h *DoctorController) Dashboard(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	dash, err := h.svc.Dashboard(c.Request.Context(), id.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"dashData": dash}))
}

func doctorUpdate(form models.DoctorProfileForm) models.DoctorProfileUpdate {
	return models.DoctorProfileUpdate{
		Name:       form.Name,
		Speciality: form.Speciality,
		Degree:     form.Degree,
		Experience: form.Experience,
		About:      form.About,
		Fees:       form.Fees,
		Available:  form.Available,
	}
}
