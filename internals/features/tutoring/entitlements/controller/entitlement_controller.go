package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorlink_backend/internals/features/tutoring/entitlements/dto"
	"tutorlink_backend/internals/features/tutoring/entitlements/model"
	svc "tutorlink_backend/internals/features/tutoring/entitlements/service"
	usermodel "tutorlink_backend/internals/features/users/user/model"
	helper "tutorlink_backend/internals/helpers"
)

type EntitlementController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *svc.EntitlementService
}

func NewEntitlementController(db *gorm.DB, service *svc.EntitlementService) *EntitlementController {
	return &EntitlementController{
		DB:        db,
		Validator: validator.New(),
		Service:   service,
	}
}

func (h *EntitlementController) studentProfile(c *fiber.Ctx) (*usermodel.StudentProfile, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	var profile usermodel.StudentProfile
	if err := h.DB.WithContext(c.Context()).
		First(&profile, "student_user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Student profile not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &profile, nil
}

// GET /api/u/entitlements — the caller's entitlements, expiry reconciled on read.
func (h *EntitlementController) GetMyEntitlements(c *fiber.Ctx) error {
	profile, err := h.studentProfile(c)
	if err != nil {
		return err
	}

	var ents []model.Entitlement
	if err := h.DB.WithContext(c.Context()).
		Where("entitlement_student_id = ?", profile.StudentProfileID).
		Order("entitlement_created_at DESC").
		Find(&ents).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now().UTC()
	out := make([]dto.EntitlementResponse, 0, len(ents))
	for i := range ents {
		if err := h.Service.ReconcileExpiry(h.DB.WithContext(c.Context()), &ents[i], now); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		out = append(out, dto.FromModel(&ents[i], now))
	}
	return helper.Success(c, "Entitlements fetched", out)
}

// POST /api/u/entitlements/:id/renew — clone an expired entitlement.
func (h *EntitlementController) RenewEntitlement(c *fiber.Ctx) error {
	profile, err := h.studentProfile(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	renewal, err := h.Service.Renew(id, profile.StudentProfileID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Entitlement not found")
		case errors.Is(err, svc.ErrNotOwned):
			return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this entitlement")
		case errors.Is(err, svc.ErrNotExpired):
			return fiber.NewError(fiber.StatusBadRequest, "Entitlement is not expired")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Renewal created",
		dto.FromModel(renewal, time.Now().UTC()))
}

// POST /api/u/entitlements/checkout — start a gateway checkout for a pending entitlement.
func (h *EntitlementController) Checkout(c *fiber.Ctx) error {
	profile, err := h.studentProfile(c)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var ent model.Entitlement
	if err := h.DB.WithContext(c.Context()).
		First(&ent, "entitlement_id = ?", req.EntitlementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Entitlement not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if ent.EntitlementStudentID != profile.StudentProfileID {
		return fiber.NewError(fiber.StatusForbidden, "Unauthorized access to this entitlement")
	}

	token, redirectURL, orderID, err := svc.GenerateSnapToken(ent, svc.CustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}, time.Now().UTC())
	if err != nil {
		if errors.Is(err, svc.ErrAlreadyPaid) {
			return fiber.NewError(fiber.StatusBadRequest, "Payment already processed")
		}
		return fiber.NewError(fiber.StatusBadGateway, "gateway error: "+err.Error())
	}

	// Remember the order id so the webhook can resolve this entitlement.
	if err := h.DB.WithContext(c.Context()).Model(&model.Entitlement{}).
		Where("entitlement_id = ?", ent.EntitlementID).
		Update("entitlement_gateway_order_id", orderID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Checkout created", dto.CheckoutResponse{
		Token:       token,
		RedirectURL: redirectURL,
		OrderID:     orderID,
	})
}

// GET /api/u/tutor/earnings — tutor's paid entitlement history.
func (h *EntitlementController) GetTutorPaymentHistory(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var tutor usermodel.TutorProfile
	if err := h.DB.WithContext(c.Context()).
		First(&tutor, "tutor_user_id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Tutor profile not found")
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	q := h.DB.WithContext(c.Context()).Model(&model.Entitlement{}).
		Where("entitlement_tutor_id = ? AND entitlement_payment_status = ?",
			tutor.TutorProfileID, model.PaymentStatusPaid)
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var ents []model.Entitlement
	if err := q.Order("entitlement_paid_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&ents).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now().UTC()
	out := make([]dto.EntitlementResponse, 0, len(ents))
	for i := range ents {
		out = append(out, dto.FromModel(&ents[i], now))
	}
	return helper.Success(c, "Payment history fetched", fiber.Map{
		"data":       out,
		"pagination": helper.BuildPagination(total, paging, len(out)),
	})
}
