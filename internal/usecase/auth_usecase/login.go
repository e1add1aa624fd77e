package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

const msgBadCredentials = "Incorrect email/nickname or password"

type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role) (token string, expiresAt time.Time, err error)
}

type LoginInput struct {
	// Login is an email or a nickname.
	Login    string
	Password string
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
}

func NewLoginUsecase(userRepo repository.UserRepository, verifier PasswordVerifier, issuer AccessTokenIssuer) *LoginUsecase {
	return &LoginUsecase{userRepo: userRepo, verifier: verifier, issuer: issuer}
}

func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	login := strings.TrimSpace(in.Login)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	user, err := u.userRepo.FindByLogin(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginOutput{}, usecase.Unauthenticated(msgBadCredentials)
	}
	if err != nil {
		return LoginOutput{}, usecase.Internal(err)
	}

	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, usecase.Unauthenticated(msgBadCredentials)
	}

	token, _, err := u.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return LoginOutput{}, usecase.Internal(err)
	}
	return LoginOutput{AccessToken: token, TokenType: "bearer"}, nil
}
