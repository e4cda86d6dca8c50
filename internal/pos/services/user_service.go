package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"restopos/internal/pos/core"
	"restopos/internal/pos/domain/models"
	"restopos/internal/xpkg/logger"
)

// UserService manages staff accounts.
type UserService struct {
	userRepo core.UserRepo
	mylog    logger.Logger
}

func NewUserService(userRepo core.UserRepo, mylog logger.Logger) *UserService {
	return &UserService{userRepo: userRepo, mylog: mylog}
}

type CreateUserParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      string
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.userRepo.Get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, p CreateUserParams) (models.User, error) {
	mylog := s.mylog.Action("create_user").With("email", p.Email)

	if err := validateUserParams(p.FirstName, p.Email, p.Role); err != nil {
		mylog.Warn("rejected user request: " + err.Error())
		return models.User{}, err
	}
	if len(p.Password) < 6 {
		return models.User{}, fmt.Errorf("%w: password must be at least 6 characters", core.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.Create(ctx, models.User{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        strings.ToLower(p.Email),
		PasswordHash: string(hash),
		Phone:        p.Phone,
		Status:       "active",
		Role:         p.Role,
	})
	if err != nil {
		mylog.Error("failed to create user", err)
		return models.User{}, err
	}

	mylog.With("user_id", user.ID, "role", user.Role).Info("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, u models.User) (models.User, error) {
	mylog := s.mylog.Action("update_user").With("user_id", u.ID)

	if err := validateUserParams(u.FirstName, u.Email, u.Role); err != nil {
		return models.User{}, err
	}

	u.Email = strings.ToLower(u.Email)
	user, err := s.userRepo.Update(ctx, u)
	if err != nil {
		mylog.Error("failed to update user", err)
		return models.User{}, err
	}

	mylog.Info("user updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	mylog := s.mylog.Action("delete_user").With("user_id", id)

	if err := s.userRepo.Delete(ctx, id); err != nil {
		mylog.Error("failed to delete user", err)
		return err
	}

	mylog.Info("user deleted")
	return nil
}

func validateUserParams(firstName, email, role string) error {
	if firstName == "" {
		return fmt.Errorf("%w: first name is required", core.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email %q is not valid", core.ErrValidation, email)
	}
	if !core.AllowedRoles[role] {
		return fmt.Errorf("%w: unknown role %q", core.ErrValidation, role)
	}
	return nil
}
