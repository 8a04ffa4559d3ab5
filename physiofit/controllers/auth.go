// physiofit/controllers/auth.go
package controllers

import (
	"context"
	"errors"
	"strings"

	"physiofit/physiofit/services/identity"
	"physiofit/physiofit/utils/logging"

	"go.uber.org/zap"
)

const (
	MinPasswordLength = 6

	msgLoginFailed      = "Login fehlgeschlagen"
	msgSignupFailed     = "Registrierung fehlgeschlagen"
	msgPasswordMismatch = "Die Passwörter stimmen nicht überein"
	msgPasswordTooShort = "Das Passwort muss mindestens 6 Zeichen lang sein"

	DefaultAfterLogin = "/dashboard"
)

// Authenticator is the part of the identity provider the auth pages use.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	SignUp(ctx context.Context, email, password, redirectTo string) (*identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type AuthController struct {
	auth Authenticator
}

func NewAuthController(auth Authenticator) *AuthController {
	return &AuthController{auth: auth}
}

// Login returns the new session, or a ValidationError carrying the text
// to show on the form.
func (c *AuthController) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := c.auth.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, userFacing(err, msgLoginFailed)
	}
	return session, nil
}

// Signup checks the form locally before contacting the provider. A nil
// session with a nil error means the account awaits e-mail confirmation.
func (c *AuthController) Signup(ctx context.Context, email, password, confirm, redirectTo string) (*identity.Session, error) {
	if password != confirm {
		return nil, &ValidationError{Msg: msgPasswordMismatch}
	}
	if len([]rune(password)) < MinPasswordLength {
		return nil, &ValidationError{Msg: msgPasswordTooShort}
	}
	session, err := c.auth.SignUp(ctx, strings.TrimSpace(email), password, redirectTo)
	if err != nil {
		return nil, userFacing(err, msgSignupFailed)
	}
	return session, nil
}

// Logout always succeeds from the browser's point of view; provider
// errors are only logged.
func (c *AuthController) Logout(ctx context.Context, accessToken string) {
	if err := c.auth.SignOut(ctx, accessToken); err != nil {
		logging.ErrorLogger.Error("logout failed",
			zap.String("request_id", logging.RequestID(ctx)), zap.Error(err))
	}
}

// SafeRedirect accepts only local absolute paths so the login form cannot
// be used as an open redirect.
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return DefaultAfterLogin
	}
	return target
}

func userFacing(err error, fallback string) error {
	var pe *identity.Error
	if errors.As(err, &pe) && pe.Message != "" {
		return &ValidationError{Msg: pe.Message}
	}
	logging.ErrorLogger.Error(fallback, zap.Error(err))
	return &ValidationError{Msg: fallback}
}
