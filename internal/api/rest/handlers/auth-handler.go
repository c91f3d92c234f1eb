package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/middleware"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/services"
)

type AuthHandler struct {
	svc       services.AuthService
	authMW    fiber.Handler
	rateLimit fiber.Handler
}

func NewAuthHandler(svc services.AuthService, authMW, rateLimit fiber.Handler) *AuthHandler {
	if rateLimit == nil {
		rateLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &AuthHandler{svc: svc, authMW: authMW, rateLimit: rateLimit}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/register-college", h.RegisterCollege)
	auth.Post("/register", h.Register)
	auth.Post("/login", h.rateLimit, h.Login)
	auth.Post("/forgot-password", h.rateLimit, h.ForgotPassword)
	auth.Post("/reset-password", h.rateLimit, h.ResetPassword)
	auth.Get("/verify-college/:code", h.VerifyCollege)
	auth.Get("/college-codes/search", h.SearchCollegeCodes)
	auth.Post("/refresh-token", h.RefreshToken)

	auth.Get("/verify-token", h.authMW, h.VerifyToken)
}

// RegisterCollege godoc
// @Summary Register a college and its primary admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterCollegeRequest true "college"
// @Success 201 {object} dto.APISuccessMessage
// @Failure 400 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Router /api/auth/register-college [post]
func (h *AuthHandler) RegisterCollege(ctx *fiber.Ctx) error {
	var req dto.RegisterCollegeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	college, err := h.svc.RegisterCollege(ctx.UserContext(), req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated,
		"College registration submitted successfully. Awaiting admin approval.",
		fiber.Map{"collegeId": college.ID, "status": college.Status})
}

// Register godoc
// @Summary Register a user in a college (or bootstrap the first super admin)
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterUserRequest true "user"
// @Success 201 {object} dto.APISuccessUser
// @Failure 400 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	user, err := h.svc.RegisterUser(ctx.UserContext(), req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}

	msg := "Registration successful. Awaiting admin approval."
	if user.IsApproved() {
		msg = "Registration successful"
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, msg, user)
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "credentials"
// @Success 200 {object} dto.APISuccessLogin
// @Failure 401 {object} dto.APIError
// @Failure 403 {object} dto.APINotApproved
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "email and password are required")
	}

	res, err := h.svc.Login(ctx.UserContext(), req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Login successful", res)
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.ForgotPasswordRequest true "email"
// @Success 200 {object} dto.APISuccessMessage
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid email id")
	}

	msg, err := h.svc.RequestReset(ctx.UserContext(), req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, msg, nil)
}

// ResetPassword godoc
// @Summary Reset a password with a mailed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.ResetPasswordRequest true "token"
// @Success 200 {object} dto.APISuccessMessage
// @Failure 400 {object} dto.APIError
// @Router /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid input")
	}

	if err := h.svc.ConsumeReset(ctx.UserContext(), req); err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Password reset successfully", nil)
}

// VerifyCollege godoc
// @Summary Look up an approved college by code
// @Tags Auth
// @Produce json
// @Param code path string true "college code"
// @Success 200 {object} dto.APISuccessCollege
// @Failure 404 {object} dto.APIError
// @Router /api/auth/verify-college/{code} [get]
func (h *AuthHandler) VerifyCollege(ctx *fiber.Ctx) error {
	college, err := h.svc.VerifyCollege(ctx.UserContext(), ctx.Params("code"))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "College verified", college)
}

func (h *AuthHandler) SearchCollegeCodes(ctx *fiber.Ctx) error {
	colleges, err := h.svc.SearchCollegeCodes(ctx.UserContext(), ctx.Query("prefix"))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", colleges)
}

// VerifyToken godoc
// @Summary Resolve the current session
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APISuccessUser
// @Failure 401 {object} dto.APIError
// @Router /api/auth/verify-token [get]
func (h *AuthHandler) VerifyToken(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Token is valid", middleware.CurrentUser(ctx))
}

// RefreshToken godoc
// @Summary Issue a new token for the current session
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APISuccessMessage
// @Failure 401 {object} dto.APIError
// @Router /api/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(ctx *fiber.Ctx) error {
	var req dto.RefreshRequest
	_ = ctx.BodyParser(&req)

	token := req.Token
	if token == "" {
		token = ctx.Get(fiber.HeaderAuthorization)
	}

	fresh, err := h.svc.RefreshSession(ctx.UserContext(), token)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Token refreshed", dto.TokenResponse{Token: fresh})
}
