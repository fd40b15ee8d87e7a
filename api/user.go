package api

import (
	"errors"
	"realtimesales/domain"
	"realtimesales/validations"

	"github.com/gofiber/fiber/v2"
)

var _ UserHandler = &userHandler{nil}

type userHandler struct {
	userService domain.UserService
}

// SignUp creates an account and its profile document
// @Summary Create an account
// @Description Register a user with the auth provider and store the profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body domain.SignUpRequest true "Account data"
// @Success 201 {object} domain.SignUpResponse "Account created successfully"
// @Failure 400 {object} domain.SignUpResponse "Invalid request"
// @Failure 409 {object} domain.SignUpResponse "Email address already in use"
// @Failure 500 {object} domain.SignUpResponse "Internal server error"
// @Router /auth/signup [post]
func (u userHandler) SignUp(ctx *fiber.Ctx) error {
	var req domain.SignUpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.SignUpResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	if err := validations.ValidateSignUpRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.SignUpResponse{
			Success: false,
			Message: "Validation failed: " + err.Error(),
		})
	}

	resp, err := u.userService.SignUp(ctx.UserContext(), &req)
	switch {
	case err == nil:
		return ctx.Status(fiber.StatusCreated).JSON(resp)
	case errors.Is(err, domain.ErrEmailAlreadyInUse):
		return ctx.Status(fiber.StatusConflict).JSON(resp)
	case errors.Is(err, domain.ErrInvalidEmail):
		return ctx.Status(fiber.StatusBadRequest).JSON(resp)
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

func NewUserHandler(userService domain.UserService) UserHandler {
	return &userHandler{userService: userService}
}
