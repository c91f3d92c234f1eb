package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/middleware"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/services"
)

type CollegeHandler struct {
	svc    services.CollegeService
	authMW fiber.Handler
}

func NewCollegeHandler(svc services.CollegeService, authMW fiber.Handler) *CollegeHandler {
	return &CollegeHandler{svc: svc, authMW: authMW}
}

func (h *CollegeHandler) SetupRoutes(app *fiber.App) {
	colleges := app.Group("/api/colleges")

	members := []fiber.Handler{h.authMW, middleware.RequireApproved(), middleware.RequireSameCollege("collegeCode")}
	admins := chain(members, middleware.RequireRole(domain.RoleCollegeAdmin, domain.RoleSuperAdmin))

	colleges.Get("/:collegeCode", chain(members, h.GetCollege)...)
	colleges.Put("/:collegeCode", chain(admins, h.UpdateCollege)...)
	colleges.Get("/:collegeCode/stats", chain(admins, h.Stats)...)
}

// GetCollege godoc
// @Summary College details
// @Tags Colleges
// @Security BearerAuth
// @Produce json
// @Param collegeCode path string true "college code"
// @Success 200 {object} dto.APISuccessCollege
// @Failure 403 {object} dto.APIError
// @Failure 404 {object} dto.APIError
// @Router /api/colleges/{collegeCode} [get]
func (h *CollegeHandler) GetCollege(ctx *fiber.Ctx) error {
	college, err := h.svc.GetCollege(ctx.UserContext(), ctx.Params("collegeCode"))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", college)
}

// UpdateCollege godoc
// @Summary Update college details
// @Tags Colleges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param collegeCode path string true "college code"
// @Param body body dto.UpdateCollegeRequest true "fields to change"
// @Success 200 {object} dto.APISuccessCollege
// @Failure 400 {object} dto.APIError
// @Failure 403 {object} dto.APIError
// @Router /api/colleges/{collegeCode} [put]
func (h *CollegeHandler) UpdateCollege(ctx *fiber.Ctx) error {
	var req dto.UpdateCollegeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, utils.CodeInvalidInput, "Please provide valid inputs")
	}

	college, err := h.svc.UpdateCollege(ctx.UserContext(), middleware.CurrentUser(ctx), ctx.Params("collegeCode"), req)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "College updated successfully", college)
}

func (h *CollegeHandler) Stats(ctx *fiber.Ctx) error {
	stats, err := h.svc.CollegeStats(ctx.UserContext(), ctx.Params("collegeCode"))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "ok", stats)
}
