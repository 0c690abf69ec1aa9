package routes

import (
	"net/http"

	"HealthLife/config/authorization"
	"HealthLife/controllers"

	"github.com/gin-gonic/gin"
)

// Handlers groups the controllers mounted by Routes.
type Handlers struct {
	UserAuth   *controllers.AuthController
	DoctorAuth *controllers.AuthController
	Patient    *controllers.PatientController
	Doctor     *controllers.DoctorController
	Chat       *controllers.ChatController
	Admin      *controllers.AdminController
	Contact    *controllers.ContactController
}

func Routes(r *gin.Engine, h Handlers, auth *authorization.Authorizer) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := r.Group("/api")

	//public
	user := api.Group("/user")
	h.UserAuth.Routes(user)
	doctor := api.Group("/doctor")
	h.DoctorAuth.Routes(doctor)
	h.Doctor.PublicRoutes(doctor)
	admin := api.Group("/admin")
	admin.POST("/login", h.Admin.Login)
	api.POST("/contact/send", h.Contact.Send)

	//patient
	h.Patient.Routes(user.Group("", auth.RequireUser()))
	h.Chat.PatientRoutes(api.Group("/chats", auth.RequireUser()))

	//doctor
	h.Doctor.Routes(doctor.Group("", auth.RequireDoctor()))
	h.Chat.DoctorRoutes(doctor.Group("/chats", auth.RequireDoctor()))

	//admin
	h.Admin.Routes(admin.Group("", auth.RequireAdmin()))
}
