package tetris

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("session belongs to another user")
	ErrTooManySessions = errors.New("too many active sessions")
	ErrManagerShutdown = errors.New("session manager is shut down")
	errUnknownAction   = errors.New("unknown action")
)

// DefaultFrameInterval はセッションを進める間隔の初期値です。
const DefaultFrameInterval = 16 * time.Millisecond

// Client はWebSocket接続を持つ単一のクライアントを表します。
type Client struct {
	UserID    string          // このクライアントに紐づくユーザーのID
	SessionID string          // 接続しているセッションのID
	Conn      *websocket.Conn // クライアントとの実際のWebSocketコネクション
	Send      chan []byte     // クライアントへメッセージを送信するためのバッファ付きチャネル
	closed    bool
	mu        sync.Mutex
	logger    zerolog.Logger
}

// SafeSend は安全にチャネルにメッセージを送信します。閉じている場合やバッファが一杯の場合はfalseです。
func (c *Client) SafeSend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// SafeClose は安全にチャネルを閉じます。
func (c *Client) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// PlayerInputEvent はクライアントから届く操作メッセージです。
// 例: {"action":"move_left","phase":"down"}
type PlayerInputEvent struct {
	SessionID string `json:"-"`
	UserID    string `json:"-"`
	Action    string `json:"action"`
	Phase     string `json:"phase,omitempty"`
}

// StateMessage はクライアントへ送るゲーム状態のメッセージです。
type StateMessage struct {
	Type   string          `json:"type"`
	State  json.RawMessage `json:"state"`
	Events []Event         `json:"events,omitempty"`
}

// GameSession は一人用のゲームセッションです。ゲーム状態はSessionManagerのRunループだけが変更します。
type GameSession struct {
	ID         string
	UserID     string
	CreatedAt  time.Time
	Controller *Controller

	input     Input
	recorder  *EventRecorder
	client    *Client
	lastState []byte
	status    Status

	mu       sync.RWMutex
	snapshot PlayerSnapshot
}

// Snapshot は最後に確定したフレームのゲーム状態を返します。
func (gs *GameSession) Snapshot() PlayerSnapshot {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.snapshot
}

func (gs *GameSession) storeSnapshot(snapshot PlayerSnapshot) {
	gs.mu.Lock()
	gs.snapshot = snapshot
	gs.mu.Unlock()
}

// ManagerOption はSessionManagerの生成オプションです。
type ManagerOption func(*SessionManager)

// WithFrameInterval はセッションを進める間隔を設定します。
func WithFrameInterval(d time.Duration) ManagerOption {
	return func(sm *SessionManager) {
		if d > 0 {
			sm.frameInterval = d
		}
	}
}

// WithMaxSessions は同時に存在できるセッション数の上限を設定します。0以下は無制限です。
func WithMaxSessions(n int) ManagerOption {
	return func(sm *SessionManager) {
		sm.maxSessions = n
	}
}

// WithSessionOptions は新しいセッションのゲーム状態に適用するオプションを追加します。
func WithSessionOptions(opts ...Option) ManagerOption {
	return func(sm *SessionManager) {
		sm.stateOptions = append(sm.stateOptions, opts...)
	}
}

// WithLogger はSessionManagerが使うロガーを設定します。
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(sm *SessionManager) {
		sm.logger = logger
	}
}

// SessionManager はゲームセッションとWebSocketクライアント接続の全体を管理します。
// Runループが一定間隔で全セッションに入力を適用して時間を進め、変化があればクライアントへ送信します。
type SessionManager struct {
	sessions      map[string]*GameSession
	register      chan *Client
	unregister    chan *Client
	inputEvents   chan PlayerInputEvent
	quit          chan struct{}
	closeOnce     sync.Once
	mu            sync.RWMutex
	frameInterval time.Duration
	maxSessions   int
	stateOptions  []Option
	logger        zerolog.Logger
}

// NewSessionManager は新しい SessionManager を作成し、そのメインループをバックグラウンドで開始します。
func NewSessionManager(opts ...ManagerOption) *SessionManager {
	sm := newSessionManager(opts...)
	go sm.Run()
	return sm
}

func newSessionManager(opts ...ManagerOption) *SessionManager {
	sm := &SessionManager{
		sessions:      make(map[string]*GameSession),
		register:      make(chan *Client, 64),
		unregister:    make(chan *Client, 64),
		inputEvents:   make(chan PlayerInputEvent, 512),
		quit:          make(chan struct{}),
		frameInterval: DefaultFrameInterval,
		logger:        log.With().Str("component", "SessionManager").Logger(),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// Run は SessionManager のメインイベントループです。
// クライアントの登録/解除、プレイヤー入力の受付、フレームの進行をこのゴルーチンで直列に処理します。
func (sm *SessionManager) Run() {
	ticker := time.NewTicker(sm.frameInterval)
	defer ticker.Stop()
	last := time.Now()

	sm.logger.Info().Dur("frame_interval", sm.frameInterval).Msg("session loop started")
	for {
		select {
		case client := <-sm.register:
			sm.handleRegister(client)

		case client := <-sm.unregister:
			sm.handleUnregister(client)

		case event := <-sm.inputEvents:
			sm.handleInput(event)

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			sm.step(elapsed)

		case <-sm.quit:
			sm.logger.Info().Msg("shutdown signal received, stopping session loop")
			return
		}
	}
}

// CreateSession は新しい一人用ゲームセッションを作成し、そのIDを返します。
func (sm *SessionManager) CreateSession(userID string) (string, error) {
	select {
	case <-sm.quit:
		return "", ErrManagerShutdown
	default:
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		return "", ErrTooManySessions
	}

	recorder := &EventRecorder{}
	opts := append(append([]Option{}, sm.stateOptions...), WithEventHandler(recorder))
	state := NewPlayerGameState(userID, opts...)

	session := &GameSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		CreatedAt:  time.Now(),
		Controller: NewController(state),
		recorder:   recorder,
		status:     state.Status(),
	}
	session.snapshot = state.Snapshot()
	sm.sessions[session.ID] = session

	sm.logger.Info().Str("session_id", session.ID).Str("user_id", userID).Msg("session created")
	return session.ID, nil
}

// GetSession は指定されたIDのセッションを返します。
func (sm *SessionManager) GetSession(sessionID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[sessionID]
	return session, ok
}

// GetSnapshot は指定されたセッションの最新のゲーム状態を返します。
func (sm *SessionManager) GetSnapshot(sessionID string) (PlayerSnapshot, error) {
	session, ok := sm.GetSession(sessionID)
	if !ok {
		return PlayerSnapshot{}, ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// SessionCount は現在のセッション数を返します。
func (sm *SessionManager) SessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// EndSession はセッションを削除し、接続中のクライアントを切断します。
func (sm *SessionManager) EndSession(sessionID, userID string) error {
	sm.mu.Lock()
	session, ok := sm.sessions[sessionID]
	if !ok {
		sm.mu.Unlock()
		return ErrSessionNotFound
	}
	if session.UserID != userID {
		sm.mu.Unlock()
		return ErrNotSessionOwner
	}
	delete(sm.sessions, sessionID)
	client := session.client
	session.client = nil
	sm.mu.Unlock()

	if client != nil {
		client.SafeClose()
	}
	snapshot := session.Snapshot()
	sm.logger.Info().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Int("score", snapshot.Score).
		Int("lines", snapshot.LinesCleared).
		Msg("session ended")
	return nil
}

// SubmitInput はプレイヤーの操作を次のフレームで適用するためにキューへ積みます。
func (sm *SessionManager) SubmitInput(event PlayerInputEvent) bool {
	select {
	case sm.inputEvents <- event:
		return true
	default:
		sm.logger.Warn().Str("session_id", event.SessionID).Msg("input events channel is full, dropping message")
		return false
	}
}

// RegisterClient はWebSocket接続をセッションに結び付け、送受信のゴルーチンを開始します。
// 同じセッションに既存の接続がある場合は置き換えます。
func (sm *SessionManager) RegisterClient(sessionID, userID string, conn *websocket.Conn) error {
	sm.mu.Lock()
	session, ok := sm.sessions[sessionID]
	if !ok {
		sm.mu.Unlock()
		return ErrSessionNotFound
	}
	if session.UserID != userID {
		sm.mu.Unlock()
		return ErrNotSessionOwner
	}
	if existing := session.client; existing != nil {
		sm.logger.Info().Str("session_id", sessionID).Msg("replacing existing connection")
		existing.SafeClose()
	}

	client := &Client{
		UserID:    userID,
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		logger:    sm.logger.With().Str("user_id", userID).Str("session_id", sessionID).Logger(),
	}
	session.client = client
	sm.mu.Unlock()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go sm.readPump(client)
	go client.writePump()

	select {
	case sm.register <- client:
	case <-sm.quit:
		client.SafeClose()
		return ErrManagerShutdown
	}
	return nil
}

// Shutdown はSessionManagerを停止し、全クライアントを切断します。
func (sm *SessionManager) Shutdown() {
	sm.closeOnce.Do(func() {
		sm.logger.Info().Msg("shutting down")
		close(sm.quit)

		sm.mu.Lock()
		for _, session := range sm.sessions {
			if session.client != nil {
				session.client.SafeClose()
				session.client = nil
			}
		}
		sm.sessions = make(map[string]*GameSession)
		sm.mu.Unlock()
	})
}

func (sm *SessionManager) handleRegister(client *Client) {
	session, ok := sm.GetSession(client.SessionID)
	if !ok {
		client.SafeClose()
		return
	}
	client.logger.Info().Msg("client registered")
	// 接続直後は変化がなくても現在の状態を送る
	session.lastState = nil
	sm.flush(session)
}

func (sm *SessionManager) handleUnregister(client *Client) {
	sm.mu.Lock()
	session, ok := sm.sessions[client.SessionID]
	current := ok && session.client == client
	if current {
		session.client = nil
	}
	sm.mu.Unlock()
	client.SafeClose()

	if !current {
		return
	}
	client.logger.Info().Msg("client disconnected")
	// 切断中に時間が進まないよう一時停止する
	if state := session.Controller.State; state.IsRunning() {
		state.TogglePause()
		sm.flush(session)
	}
}

func (sm *SessionManager) handleInput(event PlayerInputEvent) {
	session, ok := sm.GetSession(event.SessionID)
	if !ok {
		sm.logger.Debug().Str("session_id", event.SessionID).Msg("input for unknown session")
		return
	}
	if session.UserID != event.UserID {
		sm.logger.Warn().Str("session_id", event.SessionID).Str("user_id", event.UserID).Msg("input from non-owner ignored")
		return
	}
	if err := recordInput(&session.input, event); err != nil {
		sm.logger.Debug().Err(err).Str("session_id", event.SessionID).Msg("invalid input")
	}
}

func recordInput(in *Input, event PlayerInputEvent) error {
	phase, err := ParseKeyPhase(event.Phase)
	if err != nil {
		return err
	}
	if !in.Record(event.Action, phase) {
		return fmt.Errorf("%w: %q", errUnknownAction, event.Action)
	}
	return nil
}

// step は全セッションを elapsed だけ進めます。
func (sm *SessionManager) step(elapsed time.Duration) {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		sessions = append(sessions, session)
	}
	sm.mu.RUnlock()

	for _, session := range sessions {
		session.Controller.Step(elapsed, session.input)
		session.input.EndFrame()
		sm.flush(session)
	}
}

// flush は状態が変わっていればスナップショットを更新し、クライアントへ送信します。
func (sm *SessionManager) flush(session *GameSession) {
	state := session.Controller.State
	snapshot := state.Snapshot()
	events := session.recorder.Drain()

	stateJSON, err := json.Marshal(snapshot)
	if err != nil {
		sm.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to marshal game state")
		return
	}
	if len(events) == 0 && bytes.Equal(stateJSON, session.lastState) {
		return
	}
	session.lastState = stateJSON
	session.storeSnapshot(snapshot)

	if snapshot.Status != session.status {
		if snapshot.Status == StatusGameOver {
			sm.logger.Info().
				Str("session_id", session.ID).
				Int("score", snapshot.Score).
				Int("lines", snapshot.LinesCleared).
				Int("level", snapshot.Level).
				Msg("game over")
		}
		session.status = snapshot.Status
	}

	sm.mu.RLock()
	client := session.client
	sm.mu.RUnlock()
	if client == nil {
		return
	}

	message, err := json.Marshal(StateMessage{Type: "state", State: stateJSON, Events: events})
	if err != nil {
		sm.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to marshal state message")
		return
	}
	if !client.SafeSend(message) {
		client.logger.Debug().Msg("failed to send state (channel closed or full)")
	}
}
