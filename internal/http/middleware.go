package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chessnav/internal/core"
)

var validate = validator.New()

// contentTypeValidator ensures POST requests carry application/json
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get(fiber.HeaderContentType)
		if contentType != fiber.MIMEApplicationJSON && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrCodeInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// validationMiddleware parses and validates request bodies before the handler runs
func validationMiddleware(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	var requestType any
	switch {
	case strings.HasSuffix(c.Path(), "/games"):
		requestType = &core.ImportGameRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrCodeInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(requestType); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return err
		}
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrCodeInvalidRequest,
			Details: describe(errs),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

// describe joins validation failures into one readable line
func describe(errs validator.ValidationErrors) string {
	var details strings.Builder
	for _, err := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		field := err.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch err.Tag() {
		case "required":
			fmt.Fprintf(&details, "%s is required", field)
		case "oneof":
			fmt.Fprintf(&details, "%s must be one of [%s]", field, err.Param())
		case "min":
			if err.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at least %s characters", field, err.Param())
			} else {
				fmt.Fprintf(&details, "%s must have at least %s entries", field, err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be at most %s characters", field, err.Param())
			} else {
				fmt.Fprintf(&details, "%s must have at most %s entries", field, err.Param())
			}
		default:
			fmt.Fprintf(&details, "%s failed %s validation", field, err.Tag())
		}
	}
	return details.String()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrCodeInternal,
	}

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrCodeGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrCodeInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrCodeRateLimited
		}
	}

	return c.Status(code).JSON(response)
}

// writeError maps service errors onto status codes and API error codes
func writeError(c *fiber.Ctx, err error) error {
	var moveErr *core.MoveError
	switch {
	case errors.Is(err, core.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrCodeGameNotFound,
		})
	case errors.As(err, &moveErr):
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid move",
			Code:    core.ErrCodeInvalidMove,
			Details: err.Error(),
		})
	case errors.Is(err, core.ErrIllegalInput):
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request",
			Code:    core.ErrCodeInvalidRequest,
			Details: err.Error(),
		})
	}
	return err
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
