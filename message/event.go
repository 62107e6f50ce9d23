package message

import "time"

// Event は、バスを通じてレンダラーや計上系に配送される1件の出来事です。
type Event struct {
	Kind    Kind
	BrewID  string
	Message *Message // KindUser / KindAI のときのみ
	Text    string   // KindSystem / KindError / KindLog のときの本文
	At      time.Time
}

// IsSystemEvent は、会話本体（ユーザー発言・AI応答）以外のイベントかどうかを返します。
func (e *Event) IsSystemEvent() bool {
	return e.Kind != KindUser && e.Kind != KindAI
}
