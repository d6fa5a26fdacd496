package http_handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/anthanhphan/go-replication-core/internal/coordinator/config"
	"github.com/anthanhphan/go-replication-core/internal/coordinator/port"
	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	sdklogger "github.com/anthanhphan/gosdk/logger"
)

// idempotencyHeader carries the client's operation identifier. Clients that
// retry a write resend the same value to make the retry a no-op.
const idempotencyHeader = "X-Idempotency-Key"

type Server struct {
	app     *fiber.App
	cfg     *config.Config
	service port.Coordinator
}

func NewServer(cfg *config.Config, service port.Coordinator) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{
		app:     app,
		cfg:     cfg,
		service: service,
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Put("/keys/:key", s.handlePutKey)
	s.app.Get("/keys/:key", s.handleGetKey)
	s.app.Post("/transfers", s.handleTransfer)
	s.app.Get("/accounts/:name", s.handleBalance)
	s.app.Get("/topology", s.handleTopology)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process request testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) sendJSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// statusFor maps error categories onto HTTP statuses: caller mistakes are
// 400s, quorum and connectivity shortfalls 503, overdrafts 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, port.ErrKeyNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, disterrors.ErrConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, disterrors.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, disterrors.ErrStorage):
		return fiber.StatusConflict
	case errors.Is(err, disterrors.ErrNetwork), errors.Is(err, disterrors.ErrConsensus):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handlePutKey(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing key")
	}

	value := make([]byte, len(c.Body()))
	copy(value, c.Body())
	opID := c.Get(idempotencyHeader)

	receipt, err := s.service.PutKey(c.Context(), key, value, opID)
	if err != nil {
		sdklogger.Warnw("Write rejected", "key", key, "error", err.Error())
		return s.sendJSONError(c, statusFor(err), err.Error())
	}

	status := fiber.StatusCreated
	if receipt.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(receipt)
}

func (s *Server) handleGetKey(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing key")
	}

	value, err := s.service.GetKey(c.Context(), key)
	if err != nil {
		return s.sendJSONError(c, statusFor(err), err.Error())
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(value)
}

type transferRequest struct {
	Moves []port.Move `json:"moves"`
}

func (s *Server) handleTransfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid transfer body")
	}

	if err := s.service.Transfer(c.Context(), req.Moves); err != nil {
		sdklogger.Warnw("Transfer rejected", "moves", len(req.Moves), "error", err.Error())
		return s.sendJSONError(c, statusFor(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status": "committed",
		"moves":  len(req.Moves),
	})
}

func (s *Server) handleBalance(c *fiber.Ctx) error {
	name := c.Params("name")
	balance, ok := s.service.Balance(name)
	if !ok {
		return s.sendJSONError(c, fiber.StatusNotFound, "Unknown account")
	}
	return c.JSON(fiber.Map{
		"account": name,
		"balance": balance,
	})
}

func (s *Server) handleTopology(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"nodes": s.service.Topology(),
	})
}
