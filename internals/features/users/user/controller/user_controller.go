package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authsvc "tutorlink_backend/internals/features/users/auth/service"
	"tutorlink_backend/internals/features/users/user/dto"
	"tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
)

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validator: validator.New()}
}

// POST /api/auth/register — creates the account and its role profile in one
// transaction; a failure at any step rolls everything back.
func (h *UserController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	hash, err := authsvc.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "password hashing failed")
	}

	user := model.User{
		UserFullName:     req.FullName,
		UserEmail:        strings.ToLower(strings.TrimSpace(req.Email)),
		UserPasswordHash: hash,
		UserRole:         req.Role,
		UserStatus:       model.UserStatusPending,
	}

	err = h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch req.Role {
		case model.UserRoleStudent:
			return tx.Create(&model.StudentProfile{
				StudentUserID:          user.UserID,
				StudentAcademicLevelID: req.AcademicLevelID,
				StudentLearningGoals:   req.LearningGoals,
			}).Error
		case model.UserRoleTutor:
			return tx.Create(&model.TutorProfile{
				TutorUserID:          user.UserID,
				TutorBio:             req.Bio,
				TutorQualifications:  req.Qualifications,
				TutorExperienceYears: req.ExperienceYears,
				TutorLocation:        req.Location,
				TutorProfileStatus:   model.TutorStatusUnverified,
			}).Error
		case model.UserRoleParent:
			return tx.Create(&model.ParentProfile{
				ParentUserID: user.UserID,
			}).Error
		}
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			return fiber.NewError(fiber.StatusConflict, "Email is already registered")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Registration successful", fiber.Map{
		"user_id": user.UserID,
		"role":    user.UserRole,
		"status":  user.UserStatus,
	})
}

// GET /api/u/me
func (h *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var user model.User
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	out := dto.MeResponse{
		UserID:   user.UserID,
		FullName: user.UserFullName,
		Email:    user.UserEmail,
		Role:     user.UserRole,
		Status:   user.UserStatus,
	}
	if user.UserPhotoURL != nil {
		out.PhotoURL = *user.UserPhotoURL
	}

	switch user.UserRole {
	case model.UserRoleStudent:
		var p model.StudentProfile
		if err := h.DB.WithContext(c.Context()).First(&p, "student_user_id = ?", userID).Error; err == nil {
			out.StudentProfile = &p
		}
	case model.UserRoleTutor:
		var p model.TutorProfile
		if err := h.DB.WithContext(c.Context()).Preload("Levels").
			First(&p, "tutor_user_id = ?", userID).Error; err == nil {
			out.TutorProfile = &p
		}
	case model.UserRoleParent:
		var p model.ParentProfile
		if err := h.DB.WithContext(c.Context()).First(&p, "parent_user_id = ?", userID).Error; err == nil {
			out.ParentProfile = &p
		}
	}
	return helper.Success(c, "Profile fetched", out)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
