package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"chessnav/internal/core"
	"chessnav/internal/service"
)

const rateLimitRate = 10 // req/sec

const mimePGN = "application/x-chess-pgn"

type HTTPHandler struct {
	svc *service.Service
}

func NewHTTPHandler(svc *service.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// NewFiberApp builds the archive API over svc
func NewFiberApp(svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			// First hop of X-Forwarded-For, then the peer address
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrCodeRateLimited,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Get("/games", h.ListGames)
	api.Post("/games", h.ImportGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Get("/games/:gameId/positions/:ply", h.GetPosition)
	api.Get("/games/:gameId/pgn", h.GetPGN)

	return app
}

// Health reports liveness and the storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(core.HealthResponse{
		Status:  "healthy",
		Storage: h.svc.GetStorageHealth(),
		Time:    time.Now().Unix(),
	})
}

// ListGames returns archived games, optionally filtered by ?player=
func (h *HTTPHandler) ListGames(c *fiber.Ctx) error {
	games, err := h.svc.ListGames(c.Query("player"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(core.GameListResponse{Games: games})
}

// ImportGame archives a finished move list after replaying it
func (h *HTTPHandler) ImportGame(c *fiber.Ctx) error {
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrCodeInternal,
		})
	}
	req, ok := c.Locals("validatedBody").(*core.ImportGameRequest)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrCodeInternal,
		})
	}

	g, err := h.svc.ImportGame(*req)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.svc.Detail(g.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetGame returns the move list and final position of a game
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.Detail(gameID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// GetPosition navigates a game to the requested ply
func (h *HTTPHandler) GetPosition(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	ply, err := c.ParamsInt("ply")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid ply",
			Code:    core.ErrCodeInvalidRequest,
			Details: "ply must be a non-negative integer",
		})
	}

	resp, err := h.svc.Position(gameID, ply)
	var moveErr *core.MoveError
	if errors.Is(err, core.ErrIllegalInput) && !errors.As(err, &moveErr) {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "ply out of range",
			Code:    core.ErrCodeOutOfRange,
			Details: err.Error(),
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// GetPGN exports a game as PGN text
func (h *HTTPHandler) GetPGN(c *fiber.Ctx) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return err
	}
	pgn, err := h.svc.Export(gameID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, mimePGN)
	return c.SendString(pgn)
}

// gameIDParam returns the :gameId route parameter once it parses as a UUID
func gameIDParam(c *fiber.Ctx) (string, error) {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return "", fiber.NewError(fiber.StatusBadRequest, "game ID must be a valid UUID")
	}
	return gameID, nil
}
