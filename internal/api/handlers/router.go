package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

// NewRouter はAPIのルーティングを組み立てます。
func NewRouter(sm *tetris.SessionManager, auth *middleware.Authenticator, allowedOrigins []string) http.Handler {
	gameHandler := NewGameHandler(sm, auth, allowedOrigins)
	publicHandler := NewPublicHandler(sm)

	r := mux.NewRouter()
	// 認証不要な公開エンドポイント
	r.HandleFunc("/api/public", PublicHandlerFunc).Methods(http.MethodGet)
	r.HandleFunc("/api/health", publicHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{sessionID}", gameHandler.GetSessionState).Methods(http.MethodGet)
	// WebSocketは接続後の認証メッセージで認証する
	r.HandleFunc("/api/sessions/{sessionID}/ws", gameHandler.HandleWebSocketConnection).Methods(http.MethodGet)

	// 認証が必要なエンドポイント
	protected := r.PathPrefix("/api/sessions").Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("", gameHandler.CreateSession).Methods(http.MethodPost)
	protected.HandleFunc("/{sessionID}", gameHandler.EndSession).Methods(http.MethodDelete)

	return middleware.CORSHandler(allowedOrigins)(r)
}
