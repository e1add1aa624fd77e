package auth

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

type TokenValidator interface {
	Validate(raw string) (Claims, error)
}

// Authenticator resolves a bearer token to the stored user.
type Authenticator struct {
	tokens TokenValidator
	users  repository.UserRepository
}

func NewAuthenticator(tokens TokenValidator, users repository.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate loads the user fresh, so role changes apply to tokens already issued.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	if raw == "" {
		return nil, usecase.Unauthenticated("Not authenticated")
	}

	claims, err := a.tokens.Validate(raw)
	if err != nil {
		return nil, &usecase.AppError{
			Kind:    usecase.KindUnauthenticated,
			Message: "Could not validate credentials",
			Err:     err,
		}
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, usecase.Unauthenticated("Could not validate credentials")
	}
	if err != nil {
		return nil, usecase.Internal(err)
	}
	return user, nil
}

// RequireRole is Forbidden unless user has exactly role.
func RequireRole(user *model.User, role model.Role) error {
	if user == nil {
		return usecase.Unauthenticated("Not authenticated")
	}
	if user.Role != role {
		return usecase.Forbidden("Not enough permissions")
	}
	return nil
}
