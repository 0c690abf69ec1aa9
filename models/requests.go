package models

type StartChatRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
}

type ChatMessageRequest struct {
	ChatID string `json:"chatId" binding:"required"`
	Text   string `json:"text"`
}

type AddDoctorRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type ChangeAvailabilityRequest struct {
	DocID string `json:"docId" binding:"required,objectid"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type PatientProfileForm struct {
	Name    string `form:"name" binding:"required"`
	Phone   string `form:"phone" binding:"required"`
	DOB     string `form:"dob" binding:"required"`
	Gender  string `form:"gender" binding:"required"`
	Address string `form:"address"`
}

type DoctorProfileForm struct {
	Name       *string  `form:"name"`
	Speciality *string  `form:"speciality"`
	Degree     *string  `form:"degree"`
	Experience *string  `form:"experience"`
	About      *string  `form:"about"`
	Fees       *float64 `form:"fees"`
	Available  *bool    `form:"available"`
}
