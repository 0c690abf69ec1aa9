package util

// Collections
const (
	PatientCollection = "users"
	DoctorCollection  = "doctors"
	ChatCollection    = "chats"
)

// Cache keys
const (
	DoctorKey     = "DOCTOR:"
	DoctorListKey = "DOCTOR:LIST"
)

const (
	PROFILE_INCOMPLETE = "incomplete"
	PROFILE_COMPLETE   = "complete"
)

// Client facing messages
const (
	INVALID_CREDENTIALS       = "Invalid credentials"
	INVALID_ADMIN_CREDENTIALS = "Invalid admin credentials"
	PROVIDE_VALID_DETAILS     = "Please provide all valid details."
	PROVIDE_VALID_EMAIL       = "Please enter a valid email."
	ACCOUNT_ALREADY_EXISTS    = "An account with this email already exists."
	DOCTOR_ALREADY_EXISTS     = "A doctor with this email already exists."
	OTP_SENT                  = "OTP sent to your email. Please verify."
	FAILED_TO_SEND_OTP        = "Error sending OTP."
	VERIFICATION_FAILED       = "Verification failed. Code may be invalid or expired."
	INVALID_OTP               = "Invalid OTP."
	EMAIL_VERIFIED            = "Email verified successfully! Please log in to continue."
	RESET_GENERIC             = "If an account with that email exists, a password reset code has been sent."
	RESET_SENT                = "A password reset code has been sent to your email."
	RESET_EMAIL_FAILED        = "Error sending email. Please try again later."
	RESET_INVALID_INPUT       = "Please provide a valid code and a new password of at least 8 characters."
	RESET_CODE_INVALID        = "The code is invalid or has expired."
	PASSWORD_RESET_DONE       = "Password has been reset successfully. You can now log in."
	UNEXPECTED_ERROR          = "An unexpected error occurred."

	NOT_AUTHORIZED_NO_TOKEN        = "Not authorized, no token."
	NOT_AUTHORIZED_TOKEN_FAILED    = "Not authorized, token failed."
	NOT_AUTHORIZED_USER_NOT_FOUND  = "Not authorized, user not found."
	DOCTOR_NOT_AUTHORIZED_NO_TOKEN = "Doctor not authorized, no token."
	DOCTOR_NOT_AUTHORIZED_FAILED   = "Doctor not authorized, token failed."
	DOCTOR_NOT_AUTHORIZED_NOTFOUND = "Doctor not authorized, doctor not found."
	ADMIN_NOT_AUTHORIZED_NO_TOKEN  = "Admin not authorized, no token."
	ADMIN_NOT_AUTHORIZED_INVALID   = "Admin not authorized, invalid token."
	ADMIN_NOT_AUTHORIZED_FAILED    = "Admin not authorized, token failed."

	DOCTOR_NOT_AVAILABLE   = "Doctor is not available for chat."
	CHAT_STARTED           = "Chat session started"
	CHAT_NOT_FOUND         = "Chat not found."
	CHAT_EXPIRED           = "Chat has expired."
	MESSAGE_EMPTY          = "Message cannot be empty"
	REPLY_EMPTY            = "Reply cannot be empty."
	MESSAGE_SENT           = "Message sent"
	REPLY_SENT             = "Reply sent successfully."
	FAILED_TO_START_CHAT   = "Chat initiation failed"
	FAILED_TO_FETCH_CHATS  = "Error fetching chats"
	FAILED_TO_SEND_MESSAGE = "Error sending message"

	DOCTOR_NOT_FOUND         = "Doctor not found."
	PATIENT_NOT_FOUND        = "User not found."
	DOCTOR_ADDED             = "Doctor added successfully. The doctor can now log in and complete their profile."
	PROFILE_UPDATED          = "Profile updated successfully"
	AVAILABILITY_CHANGED     = "Availability Changed"
	MISSING_REQUIRED_FIELDS  = "Missing required fields"
	INVALID_ADDRESS          = "Address must be a valid JSON object"
	IMAGE_UPLOAD_FAILED      = "Image upload failed"
	FAILED_TO_LOAD_DASHBOARD = "Failed to load dashboard data."

	CONTACT_SENT   = "Message sent successfully!"
	CONTACT_FAILED = "Failed to send message"

	INTERNAL_SERVER_ERROR = "Server error."
)
