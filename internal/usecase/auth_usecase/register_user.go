package auth

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// RegisterUserInput has already passed request validation.
type RegisterUserInput struct {
	Email         string
	Nickname      string
	Password      string
	Address       model.Address
	PaymentMethod *string
}

type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

func NewRegisterUserUsecase(userRepo repository.UserRepository, hasher PasswordHasher) *RegisterUserUsecase {
	return &RegisterUserUsecase{userRepo: userRepo, hasher: hasher}
}

// Execute always creates a customer.
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	nickname := strings.TrimSpace(in.Nickname)

	if err := ensureEmailFree(ctx, u.userRepo, email, 0); err != nil {
		return nil, err
	}
	if err := ensureNicknameFree(ctx, u.userRepo, nickname, 0); err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, usecase.Internal(err)
	}

	user := &model.User{
		Email:         email,
		Nickname:      nickname,
		PasswordHash:  hashed,
		Role:          model.RoleCustomer,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
	}

	// the unique index still catches a race between check and insert
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usecase.Invalid("Email or nickname already registered")
		}
		return nil, usecase.Internal(err)
	}
	return user, nil
}

// selfID lets a user keep their own email or nickname.
func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string, selfID int64) error {
	existing, err := users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return usecase.Internal(err)
	case existing.ID != selfID:
		return usecase.Invalid("Email already registered")
	}
	return nil
}

func ensureNicknameFree(ctx context.Context, users repository.UserRepository, nickname string, selfID int64) error {
	existing, err := users.FindByNickname(ctx, nickname)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return usecase.Internal(err)
	case existing.ID != selfID:
		return usecase.Invalid("Nickname already taken")
	}
	return nil
}
