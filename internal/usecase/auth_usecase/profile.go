package auth

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// ProfileUpdate is a partial update of the caller's own account.
type ProfileUpdate struct {
	Email         model.Optional[string]
	Nickname      model.Optional[string]
	StreetAddress model.Optional[string]
	City          model.Optional[string]
	PostalCode    model.Optional[string]
	Country       model.Optional[string]
	PaymentMethod model.Optional[string]
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type ProfileUsecase struct {
	userRepo repository.UserRepository
	hasher   interface {
		PasswordHasher
		PasswordVerifier
	}
}

func NewProfileUsecase(userRepo repository.UserRepository, hasher *BcryptPasswordHasher) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo, hasher: hasher}
}

func (u *ProfileUsecase) UpdateProfile(ctx context.Context, user *model.User, in ProfileUpdate) (*model.User, error) {
	updated := *user

	if in.Email.Set {
		if in.Email.Null {
			return nil, usecase.Invalid("Email cannot be null")
		}
		email := strings.ToLower(strings.TrimSpace(in.Email.Value))
		if email != user.Email {
			if err := ensureEmailFree(ctx, u.userRepo, email, user.ID); err != nil {
				return nil, err
			}
		}
		updated.Email = email
	}
	if in.Nickname.Set {
		if in.Nickname.Null {
			return nil, usecase.Invalid("Nickname cannot be null")
		}
		nickname := strings.TrimSpace(in.Nickname.Value)
		if nickname != user.Nickname {
			if err := ensureNicknameFree(ctx, u.userRepo, nickname, user.ID); err != nil {
				return nil, err
			}
		}
		updated.Nickname = nickname
	}

	applyString(&updated.Address.StreetAddress, in.StreetAddress)
	applyString(&updated.Address.City, in.City)
	applyString(&updated.Address.PostalCode, in.PostalCode)
	applyString(&updated.Address.Country, in.Country)
	applyString(&updated.PaymentMethod, in.PaymentMethod)

	// the unique index still catches a race between check and update
	if err := u.userRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, usecase.Invalid("Email or nickname already registered")
		}
		return nil, usecase.Internal(err)
	}
	return &updated, nil
}

func (u *ProfileUsecase) ChangePassword(ctx context.Context, user *model.User, in ChangePasswordInput) error {
	if !u.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		return usecase.Invalid("Current password is incorrect")
	}

	hashed, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return usecase.Internal(err)
	}

	updated := *user
	updated.PasswordHash = hashed
	if err := u.userRepo.Update(ctx, &updated); err != nil {
		return usecase.Internal(err)
	}
	return nil
}

func applyString(dst **string, opt model.Optional[string]) {
	switch {
	case !opt.Set:
	case opt.Null:
		*dst = nil
	default:
		v := opt.Value
		*dst = &v
	}
}
