package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/middleware"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/services"
)

type UserHandler struct {
	svc    services.UserService
	authMW fiber.Handler
}

func NewUserHandler(svc services.UserService, authMW fiber.Handler) *UserHandler {
	return &UserHandler{svc: svc, authMW: authMW}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	users := app.Group("/api/users")

	// /me stays reachable so pending and rejected users can see their status
	users.Get("/me", h.authMW, h.GetMe)

	approved := []fiber.Handler{h.authMW, middleware.RequireApproved()}
	users.Get("/profile/:userId?", chain(approved, h.GetProfile)...)
	users.Put("/profile", chain(approved, h.UpdateProfile)...)
	users.Put("/change-password", chain(approved, h.ChangePassword)...)

	admins := chain(approved, middleware.RequireRole(domain.RoleCollegeAdmin, domain.RoleSuperAdmin))
	scoped := chain(admins, middleware.RequireSameCollege("collegeCode"))

	users.Get("/pending/:collegeCode", chain(scoped, h.ListPending)...)
	users.Get("/college/:collegeCode", chain(scoped, h.ListCollegeUsers)...)
	users.Put("/approval/:userId", chain(admins, h.DecideUser)...)
	users.Put("/:userId/promote", chain(admins, h.PromoteUser)...)
}

// chain returns a fresh slice so route handler lists never share storage.
func chain(mw []fiber.Handler, next ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mw)+len(next))
	out = append(out, mw...)
	return append(out, next...)
}

// GetMe godoc
// @Summary Current user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APISuccessUser
// @Failure 401 {object} dto.APIError
// @Router /api/users/me [get]
func (h *UserHandler) GetMe(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", middleware.CurrentUser(ctx))
}

// GetProfile godoc
// @Summary View a profile in the caller's college
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param userId path string false "user id, defaults to the caller"
// @Success 200 {object} dto.APISuccessUser
// @Failure 403 {object} dto.APIError
// @Failure 404 {object} dto.APIError
// @Router /api/users/profile/{userId} [get]
func (h *UserHandler) GetProfile(ctx *fiber.Ctx) error {
	id := uuid.Nil
	if raw := ctx.Params("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid user id")
		}
		id = parsed
	}

	user, err := h.svc.GetProfile(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", user)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.UpdateProfileRequest true "profile"
// @Success 200 {object} dto.APISuccessUser
// @Failure 400 {object} dto.APIError
// @Router /api/users/profile [put]
func (h *UserHandler) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	user, err := h.svc.UpdateProfile(ctx.UserContext(), middleware.CurrentUser(ctx), req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Profile updated successfully", user)
}

func (h *UserHandler) ChangePassword(ctx *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	if err := h.svc.ChangePassword(ctx.UserContext(), middleware.CurrentUser(ctx), req); err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Password changed successfully", nil)
}

// ListPending godoc
// @Summary Pending users of a college
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param collegeCode path string true "college code"
// @Success 200 {object} dto.APISuccessMessage
// @Failure 403 {object} dto.APIError
// @Router /api/users/pending/{collegeCode} [get]
func (h *UserHandler) ListPending(ctx *fiber.Ctx) error {
	users, err := h.svc.ListPending(ctx.UserContext(), ctx.Params("collegeCode"))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", users)
}

// ListCollegeUsers godoc
// @Summary Users of a college with filters
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param collegeCode path string true "college code"
// @Param role query string false "role"
// @Param approvalStatus query string false "approval status"
// @Param search query string false "name or email"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} dto.APISuccessMessage
// @Router /api/users/college/{collegeCode} [get]
func (h *UserHandler) ListCollegeUsers(ctx *fiber.Ctx) error {
	var q dto.UserListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid query")
	}

	res, err := h.svc.ListCollegeUsers(ctx.UserContext(), ctx.Params("collegeCode"), q)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", res)
}

// DecideUser godoc
// @Summary Approve or reject a user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userId path string true "user id"
// @Param body body dto.UserDecisionRequest true "decision"
// @Success 200 {object} dto.APISuccessUser
// @Failure 403 {object} dto.APIError
// @Router /api/users/approval/{userId} [put]
func (h *UserHandler) DecideUser(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid user id")
	}

	var req dto.UserDecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	user, err := h.svc.DecideUser(ctx.UserContext(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "User "+string(user.ApprovalStatus)+" successfully", user)
}

// PromoteUser godoc
// @Summary Promote a user to college admin
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param userId path string true "user id"
// @Success 200 {object} dto.APISuccessUser
// @Failure 409 {object} dto.APIError
// @Router /api/users/{userId}/promote [put]
func (h *UserHandler) PromoteUser(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid user id")
	}

	user, err := h.svc.PromoteUser(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "User promoted to college admin", user)
}
