package tetris

// EventType はゲーム状態から表示層へ通知されるイベントの種類です。
type EventType string

const (
	EventPieceLocked  EventType = "piece_locked"  // ピースがボードに固定された
	EventLinesCleared EventType = "lines_cleared" // ラインが消えた (Lines に本数)
	EventGameOver     EventType = "game_over"     // ゲームオーバーになった
)

// Event は一つのゲームイベントです。
type Event struct {
	Type  EventType `json:"type"`
	Lines int       `json:"lines,omitempty"`
}

// EventHandler はゲームイベントを受け取ります。効果音や画面演出などの表示層が実装します。
type EventHandler interface {
	HandleEvent(Event)
}

// EventHandlerFunc は関数をEventHandlerとして使うためのアダプタです。
type EventHandlerFunc func(Event)

func (f EventHandlerFunc) HandleEvent(e Event) {
	f(e)
}

// EventRecorder は受け取ったイベントを溜めておくEventHandlerです。
// フレームごとにまとめて取り出して送信する場合に使います。
type EventRecorder struct {
	events []Event
}

func (r *EventRecorder) HandleEvent(e Event) {
	r.events = append(r.events, e)
}

// Drain は溜まったイベントを返して内部のバッファを空にします。
func (r *EventRecorder) Drain() []Event {
	if len(r.events) == 0 {
		return nil
	}
	events := r.events
	r.events = nil
	return events
}
