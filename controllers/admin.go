package controllers

import (
	"net/http"

	"HealthLife/models"
	"HealthLife/services"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	svc *services.AdminService
}

func NewAdminController(svc *services.AdminService) *AdminController {
	return &AdminController{svc: svc}
}

func (h *AdminController) Routes(group *gin.RouterGroup) {
	group.GET("/dashboard", h.Dashboard)
	group.POST("/add-doctor", h.AddDoctor)
	group.GET("/all-doctors", h.AllDoctors)
	group.GET("/doctor/:id", h.DoctorProfile)
	group.PATCH("/doctor/:id", h.UpdateDoctor)
	group.POST("/change-availability", h.ChangeAvailability)
	group.GET("/consultations", h.Consultations)
}

func (h *AdminController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Unauthorized(util.INVALID_ADMIN_CREDENTIALS))
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"token": token}))
}

func (h *AdminController) Dashboard(c *gin.Context) {
	dash, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"dashData": dash}))
}

func (h *AdminController) AddDoctor(c *gin.Context) {
	var req models.AddDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.PROVIDE_VALID_DETAILS))
		return
	}
	if err := h.svc.AddDoctor(c.Request.Context(), req); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.DOCTOR_ADDED))
}

func (h *AdminController) AllDoctors(c *gin.Context) {
	doctors, err := h.svc.AllDoctors(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"doctors": doctors}))
}

func (h *AdminController) DoctorProfile(c *gin.Context) {
	doctor, err := h.svc.DoctorProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"profileData": doctor}))
}

/*
* Bind the multipart form including name
* Open the optional image and update the doctor
 */
func (h *AdminController) UpdateDoctor(c *gin.Context) {
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

	doctor, err := h.svc.UpdateDoctor(c.Request.Context(), c.Param("id"), doctorUpdate(form), img)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"message": util.PROFILE_UPDATED, "profileData": doctor}))
}

func (h *AdminController) ChangeAvailability(c *gin.Context) {
	var req models.ChangeAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.PROVIDE_VALID_DETAILS))
		return
	}
	if _, err := h.svc.ChangeAvailability(c.Request.Context(), req.DocID); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.AVAILABILITY_CHANGED))
}

func (h *AdminController) Consultations(c *gin.Context) {
	chats, err := h.svc.Consultations(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"chats": chats}))
}
