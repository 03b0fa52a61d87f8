package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

const authTimeout = 10 * time.Second

// GameHandler はゲームセッション関連のHTTPリクエスト（作成、状態取得、終了、WebSocket接続）を処理します。
type GameHandler struct {
	sessionManager *tetris.SessionManager
	auth           *middleware.Authenticator
	upgrader       websocket.Upgrader
	logger         zerolog.Logger
}

// NewGameHandler は新しい GameHandler インスタンスを作成します。
//
// Parameters:
//
//	sm             : セッションマネージャーへのポインタ
//	auth           : WebSocketの認証メッセージを検証する Authenticator
//	allowedOrigins : WebSocket接続を許可するOrigin ("*" ですべて許可)
//
// Returns:
//
//	*GameHandler: 新しく作成された GameHandler のポインタ
func NewGameHandler(sm *tetris.SessionManager, auth *middleware.Authenticator, allowedOrigins []string) *GameHandler {
	return &GameHandler{
		sessionManager: sm,
		auth:           auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log.With().Str("component", "GameHandler").Logger(),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// WriteErrorResponse はエラーレスポンスをJSON形式で書き込みます。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, map[string]string{"error": message})
}

// WriteJSONResponse はJSONレスポンスを書き込みます。
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sessionErrorStatus はセッション操作のエラーをHTTPステータスに変換します。
func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, tetris.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, tetris.ErrNotSessionOwner):
		return http.StatusForbidden
	case errors.Is(err, tetris.ErrTooManySessions), errors.Is(err, tetris.ErrManagerShutdown):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CreateSession は新しい一人用ゲームセッションを作成します。
// POST /api/sessions
func (h *GameHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		WriteErrorResponse(w, http.StatusUnauthorized, "ユーザーIDが見つかりません")
		return
	}

	sessionID, err := h.sessionManager.CreateSession(userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to create session")
		WriteErrorResponse(w, sessionErrorStatus(err), fmt.Sprintf("セッションの作成に失敗しました: %v", err))
		return
	}
	snapshot, err := h.sessionManager.GetSnapshot(sessionID)
	if err != nil {
		WriteErrorResponse(w, sessionErrorStatus(err), err.Error())
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"session_id": sessionID,
		"state":      snapshot,
	})
}

// GetSessionState はセッションの最新のゲーム状態を返します。
// GET /api/sessions/{sessionID}
func (h *GameHandler) GetSessionState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	snapshot, err := h.sessionManager.GetSnapshot(sessionID)
	if err != nil {
		WriteErrorResponse(w, sessionErrorStatus(err), "指定されたセッションは見つかりませんでした")
		return
	}
	WriteJSONResponse(w, http.StatusOK, snapshot)
}

// EndSession はセッションを終了します。セッションを作成したユーザーのみ実行できます。
// DELETE /api/sessions/{sessionID}
func (h *GameHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		WriteErrorResponse(w, http.StatusUnauthorized, "ユーザーIDが見つかりません")
		return
	}
	sessionID := mux.Vars(r)["sessionID"]

	if err := h.sessionManager.EndSession(sessionID, userID); err != nil {
		WriteErrorResponse(w, sessionErrorStatus(err), err.Error())
		return
	}
	WriteJSONResponse(w, http.StatusOK, map[string]string{"session_id": sessionID, "message": "セッションを終了しました"})
}

// authMessage はWebSocket接続後に最初に送られる認証メッセージです。
type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// HandleWebSocketConnection はHTTP接続をWebSocketにアップグレードし、
// 認証メッセージを検証してからセッションマネージャーに接続を引き渡します。
// GET /api/sessions/{sessionID}/ws
func (h *GameHandler) HandleWebSocketConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	if _, ok := h.sessionManager.GetSession(sessionID); !ok {
		WriteErrorResponse(w, http.StatusNotFound, "指定されたセッションは見つかりませんでした")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to upgrade to websocket")
		return
	}

	userID, err := h.authenticate(conn)
	if err != nil {
		h.logger.Info().Err(err).Str("session_id", sessionID).Msg("websocket authentication failed")
		conn.WriteJSON(map[string]string{"error": err.Error()})
		conn.Close()
		return
	}

	if err := h.sessionManager.RegisterClient(sessionID, userID, conn); err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Str("user_id", userID).Msg("failed to register client")
		conn.WriteJSON(map[string]string{"error": err.Error()})
		conn.Close()
	}
	// 以降の送受信はSessionManagerのreadPump/writePumpが担当する
}

func (h *GameHandler) authenticate(conn *websocket.Conn) (string, error) {
	conn.SetReadDeadline(time.Now().Add(authTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var msg authMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return "", fmt.Errorf("failed to read auth message: %w", err)
	}
	if msg.Type != "auth" {
		return "", fmt.Errorf("expected auth message, got %q", msg.Type)
	}
	userID, err := h.auth.Authenticate(msg.Token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if err := conn.WriteJSON(map[string]string{"type": "auth_success", "user_id": userID}); err != nil {
		return "", fmt.Errorf("failed to send auth response: %w", err)
	}
	return userID, nil
}
