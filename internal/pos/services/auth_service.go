package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

// Claims is the token payload checked by the HTTP middleware.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles login, password changes and the reset-code flow.
type AuthService struct {
	userRepo  core.UserRepo
	resetRepo core.ResetCodeRepo
	mailer    core.Mailer
	secret    string
	tokenTTL  time.Duration
	codeTTL   time.Duration
	mylog     logger.Logger
}

func NewAuthService(
	userRepo core.UserRepo,
	resetRepo core.ResetCodeRepo,
	mailer core.Mailer,
	secret string,
	tokenTTL, codeTTL time.Duration,
	mylog logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		secret:    secret,
		tokenTTL:  tokenTTL,
		codeTTL:   codeTTL,
		mylog:     mylog,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	mylog := s.mylog.Action("login").With("email", email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		mylog.Warn("login failed: unknown email")
		return "", models.User{}, err
	}
	if user.Status != "active" {
		mylog.Warn("login failed: inactive user")
		return "", models.User{}, fmt.Errorf("%w: account is not active", core.ErrValidation)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		mylog.Warn("login failed: bad password")
		return "", models.User{}, fmt.Errorf("%w: invalid credentials", core.ErrValidation)
	}

	token, err := s.issueToken(user)
	if err != nil {
		mylog.Error("failed to sign token", err)
		return "", models.User{}, err
	}

	mylog.With("user_id", user.ID, "role", user.Role).Info("user logged in")
	return token, user, nil
}

func (s *AuthService) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Name:   user.FirstName + " " + user.LastName,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

// ParseToken verifies a signed token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	mylog := s.mylog.Action("change_password").With("user_id", userID)

	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", core.ErrValidation)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		mylog.Warn("rejected password change: current password mismatch")
		return fmt.Errorf("%w: current password does not match", core.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		mylog.Error("failed to update password", err)
		return err
	}

	mylog.Info("password changed")
	return nil
}

// RequestReset stores a short-lived code for the account and hands it to the
// mailer. Any previous live code for the user is replaced.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	mylog := s.mylog.Action("request_password_reset").With("email", email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		mylog.Warn("reset requested for unknown email")
		return err
	}

	code := newResetCode()
	expiresAt := time.Now().Add(s.codeTTL)
	if err := s.resetRepo.Store(ctx, user.ID, code, expiresAt); err != nil {
		mylog.Error("failed to store reset code", err)
		return err
	}
	if err := s.mailer.SendResetCode(ctx, user.Email, code); err != nil {
		mylog.Error("failed to deliver reset code", err)
		return err
	}

	mylog.With("user_id", user.ID).Info("reset code issued")
	return nil
}

// ConfirmReset burns the code and sets the new password. A code works exactly
// once and only before it expires.
func (s *AuthService) ConfirmReset(ctx context.Context, code, next string) error {
	mylog := s.mylog.Action("confirm_password_reset")

	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", core.ErrValidation)
	}

	userID, err := s.resetRepo.Consume(ctx, code, time.Now())
	if err != nil {
		mylog.Warn("rejected reset confirmation: " + err.Error())
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		mylog.Error("failed to update password", err)
		return err
	}

	mylog.With("user_id", userID).Info("password reset")
	return nil
}

// RunSweeper clears expired reset codes until ctx is done.
func (s *AuthService) RunSweeper(ctx context.Context, interval time.Duration) {
	mylog := s.mylog.Action("reset_code_sweeper")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.resetRepo.DeleteExpired(ctx, time.Now())
			if err != nil {
				mylog.Error("failed to sweep reset codes", err)
				continue
			}
			if removed > 0 {
				mylog.Debug("swept expired reset codes", "removed", removed)
			}
		}
	}
}

// newResetCode derives a 6-digit code from random UUID bytes.
func newResetCode() string {
	id := uuid.New()
	n := binary.BigEndian.Uint32(id[:4]) % 1000000
	return fmt.Sprintf("%06d", n)
}

// LogMailer satisfies the mailer port by logging the code. It stands in until
// a real delivery channel exists.
type LogMailer struct {
	mylog logger.Logger
}

func NewLogMailer(mylog logger.Logger) *LogMailer {
	return &LogMailer{mylog: mylog}
}

func (m *LogMailer) SendResetCode(_ context.Context, email, code string) error {
	m.mylog.Action("send_reset_code").With("email", email, "code", code).Info("reset code ready for delivery")
	return nil
}
