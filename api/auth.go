package api

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
)

// UIDLocal is the fiber.Ctx locals key holding the authenticated user id
const UIDLocal = "uid"

// TokenVerifier checks Firebase ID tokens; *auth.Client satisfies it
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type authErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Missing bearer token"`
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(authErrorResponse{
				Success: false,
				Message: "Missing bearer token",
			})
		}

		verified, err := verifier.VerifyIDToken(ctx.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(authErrorResponse{
				Success: false,
				Message: "Invalid token",
			})
		}

		ctx.Locals(UIDLocal, verified.UID)
		return ctx.Next()
	}
}

// UserID returns the authenticated user id, or "" when auth is disabled
func UserID(ctx *fiber.Ctx) string {
	uid, _ := ctx.Locals(UIDLocal).(string)
	return uid
}

var _ TokenVerifier = (*auth.Client)(nil)
