package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ClearCache handles DELETE /v1/cache/tickets. It unconditionally resets
// both cache views so every subsequent read misses and re-fetches from the
// store. The store itself is untouched. The route sits behind JWT + role
// middleware because dropping the cache on a busy instance forces a burst
// of store reads.
func (h *TicketHandler) ClearCache(c echo.Context) error {
	h.Service.ClearCache()
	return c.NoContent(http.StatusNoContent)
}
