package auth

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/repository/mocks"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile_Partial(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	uc := NewProfileUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost))

	user := &model.User{
		ID:            1,
		Email:         "a@example.com",
		Nickname:      "alice",
		Address:       model.Address{City: strPtr("Paris"), Country: strPtr("FR")},
		PaymentMethod: strPtr("card"),
	}
	users.On("FindByNickname", mock.Anything, "alice2").Return(nil, repository.ErrNotFound)
	users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	got, err := uc.UpdateProfile(context.Background(), user, ProfileUpdate{
		Nickname:      model.Some("alice2"),
		City:          model.Some("Lyon"),
		PaymentMethod: model.Null[string](),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice2", got.Nickname)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "Lyon", *got.Address.City)
	assert.Equal(t, "FR", *got.Address.Country)
	assert.Nil(t, got.PaymentMethod)
	// caller's copy untouched
	assert.Equal(t, "Paris", *user.Address.City)
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	uc := NewProfileUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost))

	users.On("FindByEmail", mock.Anything, "b@example.com").Return(&model.User{ID: 2}, nil)

	_, err := uc.UpdateProfile(context.Background(), &model.User{ID: 1, Email: "a@example.com"}, ProfileUpdate{
		Email: model.Some("b@example.com"),
	})
	appErr, ok := usecase.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Email already registered", appErr.Message)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfile_DuplicateOnWrite(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	uc := NewProfileUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost))

	// free at check time, taken by the time the row is written
	users.On("FindByNickname", mock.Anything, "bob").Return(nil, repository.ErrNotFound)
	users.On("Update", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := uc.UpdateProfile(context.Background(), &model.User{ID: 1, Nickname: "alice"}, ProfileUpdate{
		Nickname: model.Some("bob"),
	})
	appErr, ok := usecase.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.KindInvalid, appErr.Kind)
	assert.Equal(t, "Email or nickname already registered", appErr.Message)
}

func TestChangePassword(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("old-password")
	require.NoError(t, err)
	user := &model.User{ID: 1, PasswordHash: hash}

	t.Run("wrong current", func(t *testing.T) {
		users := new(mocks.UserRepositoryMock)
		err := NewProfileUsecase(users, hasher).ChangePassword(context.Background(), user, ChangePasswordInput{
			CurrentPassword: "bad", NewPassword: "new-password",
		})
		appErr, ok := usecase.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Current password is incorrect", appErr.Message)
	})

	t.Run("success", func(t *testing.T) {
		users := new(mocks.UserRepositoryMock)
		var saved *model.User
		users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*model.User) }).
			Return(nil)

		err := NewProfileUsecase(users, hasher).ChangePassword(context.Background(), user, ChangePasswordInput{
			CurrentPassword: "old-password", NewPassword: "new-password",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.True(t, hasher.Verify("new-password", saved.PasswordHash))
		assert.Equal(t, hash, user.PasswordHash)
	})
}
