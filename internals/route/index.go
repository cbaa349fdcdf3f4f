package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorlink_backend/internals/configs"
	catalogctrl "tutorlink_backend/internals/features/catalog/controller"
	availctrl "tutorlink_backend/internals/features/tutoring/availability/controller"
	availsvc "tutorlink_backend/internals/features/tutoring/availability/service"
	entctrl "tutorlink_backend/internals/features/tutoring/entitlements/controller"
	entsvc "tutorlink_backend/internals/features/tutoring/entitlements/service"
	hirectrl "tutorlink_backend/internals/features/tutoring/hires/controller"
	hiresvc "tutorlink_backend/internals/features/tutoring/hires/service"
	reviewctrl "tutorlink_backend/internals/features/tutoring/reviews/controller"
	reviewsvc "tutorlink_backend/internals/features/tutoring/reviews/service"
	sessionctrl "tutorlink_backend/internals/features/tutoring/sessions/controller"
	sessionsvc "tutorlink_backend/internals/features/tutoring/sessions/service"
	authctrl "tutorlink_backend/internals/features/users/auth/controller"
	authsvc "tutorlink_backend/internals/features/users/auth/service"
	userctrl "tutorlink_backend/internals/features/users/user/controller"
	authmw "tutorlink_backend/internals/middlewares/auth"
	"tutorlink_backend/internals/services/mailer"
)

// SetupRoutes wires every controller behind the /api prefix. Everything under
// /api/u requires a valid access token; the payment webhook and the auth
// endpoints are public.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	mail := mailer.NewSendgridMailer()

	entitlements := entsvc.NewEntitlementService(db)
	hires := hiresvc.NewHireService(db, entitlements)
	sessions := sessionsvc.NewSessionService(db, entitlements, hires)
	availability := availsvc.NewAvailabilityService(db)
	reviews := reviewsvc.NewReviewService(db)
	codes := authsvc.NewCodeStore(db)

	api := app.Group("/api")

	/* ===================== Public ===================== */

	webhook := entctrl.NewWebhookController(db, entitlements, configs.MidtransServerKey)
	api.Post("/payments/notification", webhook.HandleNotification)

	userController := userctrl.NewUserController(db)
	authController := authctrl.NewAuthController(db, codes, mail)

	auth := api.Group("/auth")
	auth.Post("/register", userController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/refresh-token", authController.RefreshToken)

	/* ===================== Authenticated ===================== */

	u := api.Group("/u", authmw.AuthMiddleware(db))

	// Auth endpoints that need the caller's identity.
	u.Post("/logout", authController.Logout)
	u.Post("/otp/request", authController.RequestOTP)
	u.Post("/otp/verify", authController.VerifyOTP)

	// Profile + catalog.
	u.Get("/me", userController.GetMe)

	lookup := catalogctrl.NewLookupController(db)
	u.Get("/subjects", lookup.GetSubjects)
	u.Get("/education-levels", lookup.GetEducationLevels)

	registerTutorCatalogRoutes(u, db, availability, reviews)
	registerStudentRoutes(u, db, hires, sessions, entitlements, mail)
	registerTutorRoutes(u, db, hires, sessions, availability, entitlements, mail)
}

// Public tutor browsing, slot lookup and reviews, available to any
// authenticated role.
func registerTutorCatalogRoutes(
	u fiber.Router,
	db *gorm.DB,
	availability *availsvc.AvailabilityService,
	reviews *reviewsvc.ReviewService,
) {
	tutorController := userctrl.NewTutorController(db)
	availabilityController := availctrl.NewAvailabilityController(db, availability)
	reviewController := reviewctrl.NewReviewController(db, reviews)

	u.Get("/tutors", tutorController.ListTutors)
	u.Get("/tutors/:id", tutorController.GetTutor)
	u.Get("/tutors/:id/slots", availabilityController.GetTutorSlots)
	u.Get("/tutors/:id/reviews", reviewController.GetTutorReviews)
	u.Put("/reviews", reviewController.UpsertReview)
}

// Student-facing hire, session and entitlement endpoints.
func registerStudentRoutes(
	u fiber.Router,
	db *gorm.DB,
	hires *hiresvc.HireService,
	sessions *sessionsvc.SessionService,
	entitlements *entsvc.EntitlementService,
	mail mailer.Mailer,
) {
	hireController := hirectrl.NewHireController(db, hires, mail)
	studentSessions := sessionctrl.NewStudentSessionController(db, sessions)
	entitlementController := entctrl.NewEntitlementController(db, entitlements)

	u.Post("/hires", hireController.RequestHire)
	u.Get("/hires", hireController.GetMyHires)

	u.Get("/sessions", studentSessions.GetMySessions)
	u.Patch("/sessions/:id/respond", studentSessions.Respond)
	u.Post("/sessions/:id/propose", studentSessions.ProposeTime)
	u.Post("/sessions/:id/rate", studentSessions.RateSession)

	u.Get("/entitlements", entitlementController.GetMyEntitlements)
	u.Post("/entitlements/:id/renew", entitlementController.RenewEntitlement)
	u.Post("/entitlements/checkout", entitlementController.Checkout)
}

// Tutor-facing scheduling, availability and earnings endpoints.
func registerTutorRoutes(
	u fiber.Router,
	db *gorm.DB,
	hires *hiresvc.HireService,
	sessions *sessionsvc.SessionService,
	availability *availsvc.AvailabilityService,
	entitlements *entsvc.EntitlementService,
	mail mailer.Mailer,
) {
	tutorController := userctrl.NewTutorController(db)
	hireController := hirectrl.NewHireController(db, hires, mail)
	sessionController := sessionctrl.NewSessionController(db, sessions, mail)
	availabilityController := availctrl.NewAvailabilityController(db, availability)
	entitlementController := entctrl.NewEntitlementController(db, entitlements)

	t := u.Group("/tutor", authmw.RequireRole("tutor"))

	t.Patch("/profile", tutorController.UpdateMyProfile)
	t.Put("/levels", tutorController.UpsertLevelTerms)
	t.Get("/levels", tutorController.GetMyLevelTerms)
	t.Delete("/levels/:id", tutorController.DeleteLevelTerms)

	t.Get("/hires", hireController.GetIncomingHires)
	t.Patch("/hires/:id", hireController.RespondToHire)

	t.Post("/sessions", sessionController.CreateSession)
	t.Get("/sessions", sessionController.GetMySessions)
	t.Post("/sessions/:id/propose", sessionController.ProposeTime)
	t.Patch("/sessions/:id/proposal", sessionController.DecideProposal)
	t.Patch("/sessions/:id/start", sessionController.StartSession)
	t.Patch("/sessions/:id/complete", sessionController.CompleteSession)
	t.Patch("/sessions/:id/cancel", sessionController.CancelSession)
	t.Patch("/sessions/:id/revert", sessionController.RevertSession)
	t.Post("/sessions/:id/send-link", sessionController.SendMeetingLink)
	t.Delete("/sessions/:id", sessionController.DeleteSession)

	t.Get("/dashboard", sessionController.GetDashboard)

	t.Get("/availability", availabilityController.GetMyAvailability)
	t.Patch("/availability", availabilityController.UpdateMyAvailability)
	t.Put("/availability/windows", availabilityController.UpsertWindow)
	t.Delete("/availability/windows/:id", availabilityController.DeleteWindow)
	t.Post("/availability/blackouts", availabilityController.AddBlackout)
	t.Delete("/availability/blackouts/:id", availabilityController.RemoveBlackout)

	t.Get("/earnings", entitlementController.GetTutorPaymentHistory)
}
