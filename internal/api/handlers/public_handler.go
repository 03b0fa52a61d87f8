package handlers

import (
	"fmt"
	"net/http"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

// PublicHandler handles public API endpoints
type PublicHandler struct {
	sessionManager *tetris.SessionManager
}

// NewPublicHandler creates a new instance of PublicHandler
func NewPublicHandler(sm *tetris.SessionManager) *PublicHandler {
	return &PublicHandler{sessionManager: sm}
}

func PublicHandlerFunc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Hello, this is public content! (From /api/public)")
}

// Health reports liveness and the number of active sessions.
// GET /api/health
func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.sessionManager.SessionCount(),
	})
}
