// Package handler exposes the HTTP surface of the ticket API. Handlers are
// thin: they bind payloads, delegate to the service and map the domain
// error kinds onto HTTP status codes (400 invalid input, 404 not found,
// 409 duplicate, 500 everything else).
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-api/internal/model"
	"github.com/iliyamo/movie-ticket-api/internal/queue"
	"github.com/iliyamo/movie-ticket-api/internal/service"
)

// TicketHandler bundles the ticket service for the CRUD endpoints.
// PublishEvents controls whether mutations emit best-effort broker events;
// tests leave it off.
type TicketHandler struct {
	Service       *service.TicketService
	PublishEvents bool
}

// NewTicketHandler constructs a TicketHandler around the given service.
func NewTicketHandler(s *service.TicketService, publishEvents bool) *TicketHandler {
	return &TicketHandler{Service: s, PublishEvents: publishEvents}
}

// List handles GET /v1/tickets and returns all tickets, served from the
// cache snapshot when one exists.
func (h *TicketHandler) List(c echo.Context) error {
	tickets, err := h.Service.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if tickets == nil {
		tickets = []model.Ticket{} // empty list, not null
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Service.GetByID(c.Request().Context(), id)
	if err != nil {
		return ticketError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /v1/tickets and returns 201 with the created ticket.
func (h *TicketHandler) Create(c echo.Context) error {
	var req service.TicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, err := h.Service.Create(c.Request().Context(), req)
	if err != nil {
		return ticketError(c, err)
	}
	h.publish(queue.ActionCreated, t)
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/tickets/:id. The final price is recomputed from
// the request's base price and type; nothing of the old row survives.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req service.TicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, err := h.Service.Update(c.Request().Context(), id, req)
	if err != nil {
		return ticketError(c, err)
	}
	h.publish(queue.ActionUpdated, t)
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/tickets/:id and returns 204 on success.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// Capture the ticket before deleting so the event carries its fields.
	t, err := h.Service.GetByID(c.Request().Context(), id)
	if err != nil {
		return ticketError(c, err)
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return ticketError(c, err)
	}
	h.publish(queue.ActionDeleted, t)
	return c.NoContent(http.StatusNoContent)
}

// publish fires a lifecycle event in the background. Failures are logged
// by the publisher and never surface to the client.
func (h *TicketHandler) publish(action string, t model.Ticket) {
	if !h.PublishEvents {
		return
	}
	ev := queue.TicketEvent{
		Action:     action,
		TicketID:   t.ID,
		CustomerID: t.CustomerID,
		MovieID:    t.MovieID,
		Type:       string(t.Type),
		FinalPrice: t.FinalPrice,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishTicketEvent(ctx, ev)
	}()
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// ticketError translates service errors into JSON responses.
func ticketError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateTicket):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
