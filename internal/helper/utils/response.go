package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"go.uber.org/zap"
)

const (
	CodeDuplicateEntity       = "DUPLICATE_ENTITY"
	CodeInvalidReference      = "INVALID_REFERENCE"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidCredential     = "INVALID_CREDENTIAL"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeNotApproved           = "NOT_APPROVED"
	CodeForbidden             = "FORBIDDEN"
	CodeInvalidState          = "INVALID_STATE"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeTooManyRequests       = "TOO_MANY_REQUESTS"
	CodeInternal              = "INTERNAL_ERROR"
)

type errorKind struct {
	err    error
	status int
	code   string
}

// order matters: ErrCodeTaken is also a duplicate, NotApproved must win over Forbidden.
var errorKinds = []errorKind{
	{domain.ErrNotApproved, fiber.StatusForbidden, CodeNotApproved},
	{domain.ErrDuplicateEntity, fiber.StatusConflict, CodeDuplicateEntity},
	{domain.ErrInvalidReference, fiber.StatusBadRequest, CodeInvalidReference},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeInvalidInput},
	{domain.ErrInvalidCredential, fiber.StatusUnauthorized, CodeInvalidCredential},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, CodeUnauthenticated},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
	{domain.ErrInvalidState, fiber.StatusConflict, CodeInvalidState},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrInvalidOrExpiredToken, fiber.StatusBadRequest, CodeInvalidOrExpiredToken},
}

func ResponseError(ctx *fiber.Ctx, status int, code, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
		"code":    code,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, msg string, data interface{}) error {
	body := fiber.Map{
		"success": true,
		"message": msg,
	}
	if data != nil {
		body["data"] = data
	}
	return ctx.Status(status).JSON(body)
}

// HandleError turns a service error into the response envelope. Errors that
// are not one of the domain kinds are logged and reported as a generic 500.
func HandleError(ctx *fiber.Ctx, err error) error {
	var approvalErr *domain.ApprovalError
	if errors.As(err, &approvalErr) {
		body := fiber.Map{
			"success":        false,
			"message":        approvalErr.Error(),
			"code":           CodeNotApproved,
			"approvalStatus": approvalErr.Status,
		}
		if approvalErr.Reason != "" {
			body["rejectionReason"] = approvalErr.Reason
		}
		return ctx.Status(fiber.StatusForbidden).JSON(body)
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			msg := err.Error()
			if k.err == domain.ErrInvalidCredential {
				msg = domain.ErrInvalidCredential.Error()
			}
			return ResponseError(ctx, k.status, k.code, msg)
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ResponseError(ctx, fe.Code, CodeInvalidInput, fe.Message)
	}

	zap.S().Errorw("unhandled error",
		"method", ctx.Method(),
		"path", ctx.Path(),
		"error", err,
	)
	return ResponseError(ctx, fiber.StatusInternalServerError, CodeInternal, "Server error")
}

// ErrorHandler is installed as the fiber app error handler.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	return HandleError(ctx, err)
}
