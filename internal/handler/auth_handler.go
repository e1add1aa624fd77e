package handler

import (
	"net/http"
	"time"

	"storefront/internal/domain/model"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
	profileUC  *auth.ProfileUsecase
}

func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	profileUC *auth.ProfileUsecase,
) *AuthHandler {
	return &AuthHandler{registerUC: registerUC, loginUC: loginUC, profileUC: profileUC}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	grp := e.Group("/auth")
	grp.POST("/register", h.register)
	grp.POST("/login", h.login)
	grp.GET("/me", h.me, g.Auth)
	grp.PUT("/me", h.updateMe, g.Auth)
	grp.POST("/change-password", h.changePassword, g.Auth)
}

type registerRequest struct {
	Email           string  `json:"email" validate:"required,email,max=255"`
	Nickname        string  `json:"nickname" validate:"required,min=3,max=100,nickname"`
	Password        string  `json:"password" validate:"required,min=8,max=100"`
	PasswordConfirm string  `json:"password_confirm" validate:"required,eqfield=Password"`
	StreetAddress   *string `json:"street_address" validate:"omitempty,max=255"`
	City            *string `json:"city" validate:"omitempty,max=100"`
	PostalCode      *string `json:"postal_code" validate:"omitempty,max=20"`
	Country         *string `json:"country" validate:"omitempty,max=100"`
	PaymentMethod   *string `json:"payment_method" validate:"omitempty,max=50"`
}

// loginRequest accepts the OAuth2 password form as well as JSON. username is an email or a nickname.
type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type profileRequest struct {
	Email         model.Optional[string] `json:"email"`
	Nickname      model.Optional[string] `json:"nickname"`
	StreetAddress model.Optional[string] `json:"street_address"`
	City          model.Optional[string] `json:"city"`
	PostalCode    model.Optional[string] `json:"postal_code"`
	Country       model.Optional[string] `json:"country"`
	PaymentMethod model.Optional[string] `json:"payment_method"`
}

// profileCheck validates the present values of a profileRequest.
type profileCheck struct {
	Email         string `json:"email" validate:"omitempty,email,max=255"`
	Nickname      string `json:"nickname" validate:"omitempty,min=3,max=100,nickname"`
	StreetAddress string `json:"street_address" validate:"max=255"`
	City          string `json:"city" validate:"max=100"`
	PostalCode    string `json:"postal_code" validate:"max=20"`
	Country       string `json:"country" validate:"max=100"`
	PaymentMethod string `json:"payment_method" validate:"max=50"`
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8,max=100"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

type userResponse struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Nickname      string     `json:"nickname"`
	Role          model.Role `json:"role"`
	StreetAddress *string    `json:"street_address"`
	City          *string    `json:"city"`
	PostalCode    *string    `json:"postal_code"`
	Country       *string    `json:"country"`
	PaymentMethod *string    `json:"payment_method"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Nickname:      u.Nickname,
		Role:          u.Role,
		StreetAddress: u.Address.StreetAddress,
		City:          u.Address.City,
		PostalCode:    u.Address.PostalCode,
		Country:       u.Address.Country,
		PaymentMethod: u.PaymentMethod,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	user, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
		Address: model.Address{
			StreetAddress: req.StreetAddress,
			City:          req.City,
			PostalCode:    req.PostalCode,
			Country:       req.Country,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Login:    req.Username,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) updateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	check := profileCheck{
		Email:         req.Email.Value,
		Nickname:      req.Nickname.Value,
		StreetAddress: req.StreetAddress.Value,
		City:          req.City.Value,
		PostalCode:    req.PostalCode.Value,
		Country:       req.Country.Value,
		PaymentMethod: req.PaymentMethod.Value,
	}
	if err := c.Validate(&check); err != nil {
		return writeError(c, err)
	}

	updated, err := h.profileUC.UpdateProfile(c.Request().Context(), user, auth.ProfileUpdate{
		Email:         req.Email,
		Nickname:      req.Nickname,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toUserResponse(updated))
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.profileUC.ChangePassword(c.Request().Context(), user, auth.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Password changed successfully"})
}
