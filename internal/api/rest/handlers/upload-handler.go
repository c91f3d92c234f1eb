package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/middleware"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/services"
	pkgutils "github.com/sirapurapushyam/AluminiHub-sub000/pkg/utils"
)

const uploadTimeout = 20 * time.Second

type UploadHandler struct {
	svc    services.UserService
	authMW fiber.Handler
}

func NewUploadHandler(svc services.UserService, authMW fiber.Handler) *UploadHandler {
	return &UploadHandler{svc: svc, authMW: authMW}
}

func (h *UploadHandler) SetupRoutes(app *fiber.App) {
	profile := app.Group("/api/users/profile")

	approved := middleware.RequireApproved()
	profile.Post("/image", h.authMW, approved, h.UploadProfileImage)
	profile.Post("/resume", h.authMW, approved, h.UploadResume)
	profile.Delete("/resume", h.authMW, approved, h.DeleteResume)
}

// UploadProfileImage godoc
// @Summary Upload a profile image
// @Tags Users
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "jpeg, png or webp up to 5MB"
// @Success 200 {object} dto.APISuccessUser
// @Failure 400 {object} dto.APIError
// @Router /api/users/profile/image [post]
func (h *UploadHandler) UploadProfileImage(c *fiber.Ctx) error {
	file, err := readUpload(c, "image", services.MaxImageSize)
	if err != nil {
		return utils.HandleError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	user, err := h.svc.UploadProfileImage(ctx, middleware.CurrentUser(c), file)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.ResponseSuccess(c, fiber.StatusOK, "Profile image uploaded successfully", user)
}

// UploadResume godoc
// @Summary Upload a resume
// @Tags Users
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "pdf, doc or docx up to 10MB"
// @Success 200 {object} dto.APISuccessUser
// @Failure 400 {object} dto.APIError
// @Router /api/users/profile/resume [post]
func (h *UploadHandler) UploadResume(c *fiber.Ctx) error {
	file, err := readUpload(c, "resume", services.MaxResumeSize)
	if err != nil {
		return utils.HandleError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	user, err := h.svc.UploadResume(ctx, middleware.CurrentUser(c), file)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.ResponseSuccess(c, fiber.StatusOK, "Resume uploaded successfully", user)
}

func (h *UploadHandler) DeleteResume(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	user, err := h.svc.DeleteResume(ctx, middleware.CurrentUser(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.ResponseSuccess(c, fiber.StatusOK, "Resume deleted successfully", user)
}

// readUpload accepts the file under field or the generic "file" field.
func readUpload(c *fiber.Ctx, field string, maxSize int64) (dto.UploadFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		return dto.UploadFile{}, domain.Invalid("file is required")
	}
	if fh.Size > maxSize {
		return dto.UploadFile{}, domain.Invalid("file too large")
	}

	f, err := fh.Open()
	if err != nil {
		return dto.UploadFile{}, err
	}
	defer f.Close()

	data, err := pkgutils.ReadAllLimit(f, maxSize)
	if errors.Is(err, pkgutils.ErrFileTooLarge) {
		return dto.UploadFile{}, domain.Invalid("file too large")
	}
	if err != nil {
		return dto.UploadFile{}, err
	}

	return dto.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
