package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/users/auth/dto"
	authmodel "tutorlink_backend/internals/features/users/auth/model"
	"tutorlink_backend/internals/features/users/auth/service"
	usermodel "tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
	"tutorlink_backend/internals/services/mailer"
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Codes     *service.CodeStore
	Mailer    mailer.Mailer
}

func NewAuthController(db *gorm.DB, codes *service.CodeStore, m mailer.Mailer) *AuthController {
	return &AuthController{
		DB:        db,
		Validator: validator.New(),
		Codes:     codes,
		Mailer:    m,
	}
}

// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user usermodel.User
	if err := h.DB.WithContext(c.Context()).
		First(&user, "user_email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !service.CheckPassword(user.UserPasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	access, err := service.GenerateAccessToken(user.UserID, user.UserRole)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "token generation failed")
	}
	refresh, err := service.GenerateRefreshToken(user.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "token generation failed")
	}

	return helper.Success(c, "Login successful", dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.UserID.String(),
		Role:         user.UserRole,
	})
}

// POST /api/auth/refresh-token
func (h *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, err := service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	}

	var user usermodel.User
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "User not found")
	}

	access, err := service.GenerateAccessToken(user.UserID, user.UserRole)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "token generation failed")
	}
	return helper.Success(c, "Token refreshed", fiber.Map{"access_token": access})
}

// POST /api/auth/logout — blacklists the presented access token until expiry.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	tokenString, _ := c.Locals("token_string").(string)
	if tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing token")
	}

	entry := authmodel.TokenBlacklist{
		Token:     tokenString,
		ExpiredAt: time.Now().Add(service.AccessTokenTTL),
	}
	if err := h.DB.WithContext(c.Context()).Create(&entry).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "logout failed: "+err.Error())
	}
	return helper.Success(c, "Logged out", nil)
}

// POST /api/auth/otp/request
func (h *AuthController) RequestOTP(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.RequestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user usermodel.User
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	code, err := h.Codes.Issue(userID, req.Purpose)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not issue code")
	}

	h.Mailer.Send(mailer.Message{
		To:      []string{user.UserEmail},
		Subject: "Your verification code",
		HTML:    fmt.Sprintf("<p>Your verification code is <b>%s</b>. It expires in 10 minutes.</p>", code),
	})

	return helper.Success(c, "Verification code sent", nil)
}

// POST /api/auth/otp/verify
func (h *AuthController) VerifyOTP(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := h.Codes.Verify(userID, req.Purpose, req.Code); err != nil {
		if errors.Is(err, service.ErrOTPInvalid) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired code")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if req.Purpose == authmodel.OTPPurposeVerifyEmail {
		if err := h.DB.WithContext(c.Context()).Model(&usermodel.User{}).
			Where("user_id = ?", userID).
			Update("user_status", usermodel.UserStatusActive).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.Success(c, "Code verified", nil)
}
