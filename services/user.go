package services

import (
	"context"
	"errors"
	"fmt"

	"realtimesales/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.UserService = &userService{}

type userService struct {
	registrar domain.UserRegistrar
}

func (u userService) SignUp(ctx context.Context, request *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	uid, err := u.registrar.CreateUser(ctx, request.Name, request.Email, request.Password)
	if err != nil {
		message := "Failed to create account"
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyInUse):
			message = "That email address is already in use!"
		case errors.Is(err, domain.ErrInvalidEmail):
			message = "That email address is invalid!"
		default:
			logrus.WithError(err).Error("UserService: sign-up failed")
		}
		return &domain.SignUpResponse{
			Success: false,
			Message: message,
		}, err
	}

	logrus.WithField("uid", uid).Info("UserService: account created")
	return &domain.SignUpResponse{
		Success: true,
		Message: "Account created successfully",
		UID:     uid,
	}, nil
}

func NewUserService(registrar domain.UserRegistrar) (domain.UserService, error) {
	if registrar == nil {
		return nil, fmt.Errorf("user registrar cannot be nil")
	}
	return &userService{registrar: registrar}, nil
}
