package controllers

import (
	"net/http"

	"HealthLife/models"
	"HealthLife/services"
	"HealthLife/util"

	"github.com/gin-gonic/gin"
)

// AuthController serves login, signup and password reset for one account type.
type AuthController struct {
	svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

func (h *AuthController) Routes(group *gin.RouterGroup) {
	group.POST("/login", h.Login)
	group.POST("/register/request-otp", h.RequestOTP)
	group.POST("/register/verify-otp", h.VerifyOTP)
	group.POST("/forgot-password/request", h.ForgotPassword)
	group.POST("/forgot-password/reset", h.ResetPassword)
}

/*
* Bind the credentials
* Pass to the service which returns the token
 */
func (h *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Unauthorized(util.INVALID_CREDENTIALS))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	payload := gin.H{"token": res.Token}
	if res.ProfileStatus != "" {
		payload["profileStatus"] = res.ProfileStatus
	}
	c.JSON(http.StatusOK, util.SuccessResponse(payload))
}

func (h *AuthController) RequestOTP(c *gin.Context) {
	var req models.RegisterOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.PROVIDE_VALID_DETAILS))
		return
	}
	if err := h.svc.RequestRegistrationOTP(c.Request.Context(), req); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.OTP_SENT))
}

func (h *AuthController) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.VERIFICATION_FAILED))
		return
	}
	if err := h.svc.VerifyRegistrationOTP(c.Request.Context(), req); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.EMAIL_VERIFIED))
}

func (h *AuthController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.PROVIDE_VALID_EMAIL))
		return
	}
	msg, err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(msg))
}

func (h *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest(util.RESET_INVALID_INPUT))
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), req); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.PASSWORD_RESET_DONE))
}
