package service

import (
	"context"
	"strings"
	"time"

	"travelbook/internal/auth"
	"travelbook/internal/domain"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	store    domain.UserStore
	tokens   *auth.Tokens
	notifier domain.Notifier
	otpTTL   time.Duration
	logger   *zerolog.Logger
}

func NewUserService(store domain.UserStore, tokens *auth.Tokens, notifier domain.Notifier, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		otpTTL:   models.OTPTTLMinutes * time.Minute,
		logger:   logger,
	}
}

// Register creates an account and logs it in.
func (s *UserService) Register(ctx context.Context, name, email, password, phone, address string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", invalid("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", invalid("a valid email is required")
	}
	if len(password) < 6 {
		return nil, "", invalid("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		Address:      address,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// ProfilePatch carries the updatable profile fields. Nil means keep.
type ProfilePatch struct {
	Name    *string
	Phone   *string
	Address *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalid("name cannot be empty")
		}
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}

	if err := s.store.UpdateUserProfile(ctx, userID, user.Name, user.Phone, user.Address); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return invalid("password must be at least 6 characters")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateUserPassword(ctx, userID, hash)
}

// ForgotPassword creates a reset code for the account. The code goes out via
// the notifier channel; without one it is only logged.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.store.GetUserByEmail(ctx, email); err != nil {
		return err
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.store.SaveOTP(ctx, email, code); err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Msg("password reset code issued")
	if s.notifier != nil {
		msg := "Password reset requested for " + email + ", code: " + code
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.logger.Error().Err(err).Msg("failed to deliver reset code")
		}
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if len(newPassword) < 6 {
		return invalid("password must be at least 6 characters")
	}
	if err := s.store.ConsumeOTP(ctx, email, code, s.otpTTL); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateUserPasswordByEmail(ctx, email, hash)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return invalid("cannot delete your own account")
	}
	return s.store.DeleteUser(ctx, userID)
}

// ToggleAdmin flips the admin flag and returns the new value.
func (s *UserService) ToggleAdmin(ctx context.Context, actorID, userID int64) (bool, error) {
	if actorID == userID {
		return false, invalid("cannot change your own admin status")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}

	newState := !user.IsAdmin
	if err := s.store.SetUserAdmin(ctx, userID, newState); err != nil {
		return false, err
	}
	return newState, nil
}
