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

type AdminHandler struct {
	colleges services.CollegeService
	admins   services.AdminService
	authMW   fiber.Handler
}

func NewAdminHandler(colleges services.CollegeService, admins services.AdminService, authMW fiber.Handler) *AdminHandler {
	return &AdminHandler{colleges: colleges, admins: admins, authMW: authMW}
}

func (h *AdminHandler) SetupRoutes(app *fiber.App) {
	admin := app.Group("/api/admin")

	mw := []fiber.Handler{h.authMW, middleware.RequireRole(domain.RoleSuperAdmin)}

	admin.Get("/colleges/pending", chain(mw, h.PendingColleges)...)
	admin.Get("/colleges", chain(mw, h.ListColleges)...)
	admin.Put("/colleges/:collegeId/approval", chain(mw, h.DecideCollege)...)
	admin.Get("/stats", chain(mw, h.Stats)...)

	admin.Get("/super-admins", chain(mw, h.ListSuperAdmins)...)
	admin.Post("/super-admins", chain(mw, h.CreateSuperAdmin)...)
	admin.Delete("/super-admins/:adminId", chain(mw, h.RemoveSuperAdmin)...)

	admin.Get("/logs", chain(mw, h.Logs)...)
}

// PendingColleges godoc
// @Summary Colleges awaiting approval
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APISuccessMessage
// @Failure 403 {object} dto.APIError
// @Router /api/admin/colleges/pending [get]
func (h *AdminHandler) PendingColleges(ctx *fiber.Ctx) error {
	colleges, err := h.colleges.ListPending(ctx.UserContext())
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", colleges)
}

// ListColleges godoc
// @Summary All colleges with user counts
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param search query string false "name, email or code"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} dto.APISuccessMessage
// @Router /api/admin/colleges [get]
func (h *AdminHandler) ListColleges(ctx *fiber.Ctx) error {
	var q dto.CollegeListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid query")
	}

	res, err := h.colleges.ListColleges(ctx.UserContext(), q)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", res)
}

// DecideCollege godoc
// @Summary Approve or reject a pending college
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param collegeId path string true "college id"
// @Param body body dto.CollegeDecisionRequest true "decision"
// @Success 200 {object} dto.APISuccessCollege
// @Failure 404 {object} dto.APIError
// @Failure 409 {object} dto.APIError
// @Router /api/admin/colleges/{collegeId}/approval [put]
func (h *AdminHandler) DecideCollege(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("collegeId"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid college id")
	}

	var req dto.CollegeDecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	college, err := h.colleges.DecideCollege(ctx.UserContext(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "College "+string(college.Status)+" successfully", college)
}

func (h *AdminHandler) Stats(ctx *fiber.Ctx) error {
	stats, err := h.colleges.PlatformStats(ctx.UserContext())
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", stats)
}

func (h *AdminHandler) ListSuperAdmins(ctx *fiber.Ctx) error {
	admins, err := h.admins.ListSuperAdmins(ctx.UserContext())
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", admins)
}

// CreateSuperAdmin godoc
// @Summary Create another super admin
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateSuperAdminRequest true "admin"
// @Success 201 {object} dto.APISuccessUser
// @Failure 409 {object} dto.APIError
// @Router /api/admin/super-admins [post]
func (h *AdminHandler) CreateSuperAdmin(ctx *fiber.Ctx) error {
	var req dto.CreateSuperAdminRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	user, err := h.admins.CreateSuperAdmin(ctx.UserContext(), middleware.CurrentUser(ctx), req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "Super admin created successfully", user)
}

func (h *AdminHandler) RemoveSuperAdmin(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("adminId"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid admin id")
	}

	if err := h.admins.RemoveSuperAdmin(ctx.UserContext(), middleware.CurrentUser(ctx), id); err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Super admin removed successfully", nil)
}

// Logs godoc
// @Summary Audit log of administrative actions
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} dto.APISuccessMessage
// @Router /api/admin/logs [get]
func (h *AdminHandler) Logs(ctx *fiber.Ctx) error {
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "invalid query")
	}

	res, err := h.admins.Logs(ctx.UserContext(), q)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", res)
}
