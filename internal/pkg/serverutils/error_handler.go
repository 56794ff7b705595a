package serverutils

import (
	"errors"

	"ai-support-chat-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandlerMiddleware turns errors returned by handlers into JSON error bodies.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}

// ErrorHandler maps application and Fiber errors to a status and body. It also
// serves as fiber.Config.ErrorHandler for errors raised outside the middleware chain.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status, code, message := classify(err)
	return ctx.Status(status).JSON(ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
	})
}

func classify(err error) (int, string, string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Kind.Status(), appErr.Kind.String(), appErr.Error()
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiberErr.Code < fiber.StatusInternalServerError:
			code = apperror.KindValidation.String()
		}
		return fiberErr.Code, code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, apperror.KindUnknown.String(), err.Error()
}
