package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HealthLife/config/jwt"
	"HealthLife/config/mail"
	"HealthLife/models"
	"HealthLife/repository"
	"HealthLife/util"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	// Role is jwt.RoleUser or jwt.RoleDoctor.
	Role string
	// Portal names the product in outgoing mail.
	Portal        string
	OTPTTL        time.Duration
	AlreadyExists string
	// OnChange runs after a signup inserts or verifies an account.
	OnChange func(ctx context.Context)
}

// AuthService runs login, signup verification and password reset for one
// account collection.
type AuthService struct {
	accounts AccountStore
	tokens   *jwt.Manager
	mailer   mail.Mailer
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(accounts AccountStore, tokens *jwt.Manager, mailer mail.Mailer, cfg AuthConfig) *AuthService {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.AlreadyExists == "" {
		cfg.AlreadyExists = util.ACCOUNT_ALREADY_EXISTS
	}
	return &AuthService{accounts: accounts, tokens: tokens, mailer: mailer, cfg: cfg, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

/*
* Look up the verified account by email
* Missing, unverified and wrong password all fail with the same message
* Doctors also get their profile status back
 */
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	if !acc.IsVerified {
		return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(req.Password)); err != nil {
		return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	token, err := s.tokens.GenerateJWT(acc.ID.Hex(), s.cfg.Role)
	if err != nil {
		return nil, util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	res := &models.LoginResult{Token: token}
	if s.cfg.Role == jwt.RoleDoctor {
		res.ProfileStatus = acc.ProfileStatus
		if res.ProfileStatus == "" {
			res.ProfileStatus = util.PROFILE_INCOMPLETE
		}
	}
	return res, nil
}

/*
* Refuse emails that already belong to a verified account
* Generate the otp, hash it along with the password
* Upsert the pending record, replacing an earlier unverified one
* Mail the plain code
 */
func (s *AuthService) RequestRegistrationOTP(ctx context.Context, req models.RegisterOTPRequest) error {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || len(req.Password) < 8 {
		return util.BadRequest(util.PROVIDE_VALID_DETAILS)
	}
	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return util.Internal(util.FAILED_TO_SEND_OTP, err)
	}
	if existing != nil && existing.IsVerified {
		return util.BadRequest(s.cfg.AlreadyExists)
	}

	otp, err := util.GenerateOTP()
	if err != nil {
		return util.Internal(util.FAILED_TO_SEND_OTP, err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return util.Internal(util.FAILED_TO_SEND_OTP, err)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return util.Internal(util.FAILED_TO_SEND_OTP, err)
	}
	err = s.accounts.UpsertPending(ctx, models.PendingSignup{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		OTPHash:      string(otpHash),
		OTPExpires:   s.now().Add(s.cfg.OTPTTL),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return util.BadRequest(s.cfg.AlreadyExists)
	}
	if err != nil {
		return util.Internal(util.FAILED_TO_SEND_OTP, err)
	}
	s.changed(ctx)

	subject := s.cfg.Portal + " - Email Verification"
	body := fmt.Sprintf("<p>Your OTP for %s registration is: <h2><b>%s</b></h2> This is valid for %d minutes.</p>",
		s.cfg.Portal, otp, int(s.cfg.OTPTTL.Minutes()))
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		log.Error().Err(err).Str("role", s.cfg.Role).Msg("registration otp mail failed")
		return util.Internal(util.FAILED_TO_SEND_OTP, err)
	}
	log.Info().Str("role", s.cfg.Role).Str("email", email).Msg("registration otp sent")
	return nil
}

/*
* Fail if there is no pending record or its code expired
* Compare the code with the stored hash
* Mark verified, which also consumes the code
 */
func (s *AuthService) VerifyRegistrationOTP(ctx context.Context, req models.VerifyOTPRequest) error {
	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return util.BadRequest(util.VERIFICATION_FAILED)
	}
	if err != nil {
		return util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	if acc.IsVerified || acc.OTP == "" || acc.OTPExpires == nil || !acc.OTPExpires.After(s.now()) {
		return util.BadRequest(util.VERIFICATION_FAILED)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.OTP), []byte(req.OTP)); err != nil {
		return util.BadRequest(util.INVALID_OTP)
	}
	err = s.accounts.MarkVerified(ctx, acc.ID, acc.OTP)
	if errors.Is(err, repository.ErrNotFound) {
		return util.BadRequest(util.VERIFICATION_FAILED)
	}
	if err != nil {
		return util.Internal(util.INTERNAL_SERVER_ERROR, err)
	}
	s.changed(ctx)
	return nil
}

func (s *AuthService) changed(ctx context.Context) {
	if s.cfg.OnChange != nil {
		s.cfg.OnChange(ctx)
	}
}

/*
* Unknown or unverified emails get the generic answer
* Store the hashed code and mail it
* Clear the code again when the mail cannot be delivered
 */
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return util.RESET_GENERIC, nil
	}
	if err != nil {
		return "", util.Internal(util.UNEXPECTED_ERROR, err)
	}
	if !acc.IsVerified {
		return util.RESET_GENERIC, nil
	}

	otp, err := util.GenerateOTP()
	if err != nil {
		return "", util.Internal(util.UNEXPECTED_ERROR, err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return "", util.Internal(util.UNEXPECTED_ERROR, err)
	}
	if err := s.accounts.SetResetOTP(ctx, acc.ID, string(otpHash), s.now().Add(s.cfg.OTPTTL)); err != nil {
		return "", util.Internal(util.UNEXPECTED_ERROR, err)
	}

	subject := s.cfg.Portal + " - Password Reset Code"
	body := fmt.Sprintf("<p>Your password reset code for %s is: <h2><b>%s</b></h2> This code is valid for %d minutes.</p>",
		s.cfg.Portal, otp, int(s.cfg.OTPTTL.Minutes()))
	if err := s.mailer.Send(ctx, acc.Email, subject, body); err != nil {
		log.Error().Err(err).Str("role", s.cfg.Role).Msg("password reset mail failed")
		if clearErr := s.accounts.ClearResetOTP(ctx, acc.ID); clearErr != nil {
			log.Error().Err(clearErr).Msg("clearing reset code failed")
		}
		return "", util.Internal(util.RESET_EMAIL_FAILED, err)
	}
	return util.RESET_SENT, nil
}

/*
* Check the code against the stored hash and expiry
* Hash the new password and consume the code in one write
 */
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if req.OTP == "" || len(req.NewPassword) < 8 {
		return util.BadRequest(util.RESET_INVALID_INPUT)
	}
	acc, err := s.accounts.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return util.BadRequest(util.RESET_CODE_INVALID)
	}
	if err != nil {
		return util.Internal(util.UNEXPECTED_ERROR, err)
	}
	if acc.PasswordResetOTP == "" || acc.PasswordResetExpires == nil || !acc.PasswordResetExpires.After(s.now()) {
		return util.BadRequest(util.RESET_CODE_INVALID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordResetOTP), []byte(req.OTP)); err != nil {
		return util.BadRequest(util.RESET_CODE_INVALID)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return util.Internal(util.UNEXPECTED_ERROR, err)
	}
	err = s.accounts.ResetPassword(ctx, acc.ID, acc.PasswordResetOTP, string(passwordHash))
	if errors.Is(err, repository.ErrNotFound) {
		return util.BadRequest(util.RESET_CODE_INVALID)
	}
	if err != nil {
		return util.Internal(util.UNEXPECTED_ERROR, err)
	}
	return nil
}
