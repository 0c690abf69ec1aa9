package routes

import (
	"HealthLife/config/authorization"
	"HealthLife/config/jwt"
	"HealthLife/controllers"
	"HealthLife/repository"
	"HealthLife/server"
	"HealthLife/services"
	"HealthLife/util"
)

type patientStore interface {
	services.AccountStore
	services.PatientStore
	authorization.AccountResolver
}

type doctorStore interface {
	services.AccountStore
	services.DoctorStore
	authorization.AccountResolver
}

// Wire builds the mongo repositories on the shared database and everything on top.
func Wire(res *server.Resources) (Handlers, *authorization.Authorizer) {
	return build(res,
		repository.NewPatientRepository(res.DB),
		repository.NewDoctorRepository(res.DB),
		repository.NewChatRepository(res.DB))
}

/*
* Build services per account type and the controllers on top
* Return the authorizer resolving tokens against the same stores
 */
func build(res *server.Resources, patients patientStore, doctors doctorStore, chats services.ChatStore) (Handlers, *authorization.Authorizer) {
	cfg := res.Config
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL, cfg.AdminTokenTTL)

	userAuth := services.NewAuthService(patients, tokens, res.Mailer, services.AuthConfig{
		Role:   jwt.RoleUser,
		Portal: "HealthLife",
		OTPTTL: cfg.OTPTTL,
	})
	doctorSvc := services.NewDoctorService(doctors, chats, res.Cache, res.Uploader)
	doctorAuth := services.NewAuthService(doctors, tokens, res.Mailer, services.AuthConfig{
		Role:          jwt.RoleDoctor,
		Portal:        "HealthLife Doctor Portal",
		OTPTTL:        cfg.OTPTTL,
		AlreadyExists: util.DOCTOR_ALREADY_EXISTS,
		OnChange:      doctorSvc.InvalidateDirectory,
	})
	chatSvc := services.NewChatService(chats, doctors, res.Hub, services.ChatConfig{
		Duration:               cfg.ChatDuration,
		DoctorReplyAfterExpiry: cfg.DoctorReplyAfterExpiry,
	})
	patientSvc := services.NewPatientService(patients, res.Uploader)
	adminSvc := services.NewAdminService(services.AdminConfig{Email: cfg.AdminEmail, Password: cfg.AdminPassword},
		tokens, doctors, patients, chats, doctorSvc, chatSvc)
	contactSvc := services.NewContactService(res.Mailer, cfg.ContactInbox)

	h := Handlers{
		UserAuth:   controllers.NewAuthController(userAuth),
		DoctorAuth: controllers.NewAuthController(doctorAuth),
		Patient:    controllers.NewPatientController(patientSvc),
		Doctor:     controllers.NewDoctorController(doctorSvc),
		Chat:       controllers.NewChatController(chatSvc),
		Admin:      controllers.NewAdminController(adminSvc),
		Contact:    controllers.NewContactController(contactSvc),
	}
	return h, authorization.New(tokens, patients, doctors)
}
