package conversation

import (
	"fmt"

	"github.com/sat8bit/brew/message"
)

// Conversation は、1つの醸造（brew）に紐づくメッセージ履歴と、
// プロンプトに差し戻すための平文トランスクリプトを保持します。
type Conversation struct {
	Messages   []*message.Message `json:"messages"`
	Transcript string             `json:"conversationHistory"`
}

// Store は、brew ごとの会話状態の唯一の置き場です。
// すべての変更操作は、呼び出しの都度永続化されます。
type Store interface {
	// Get は、brew の現在の会話を返します。存在しなければ空の会話を返します。
	Get(brewID string) *Conversation

	// AppendMessage は、メッセージを末尾に追加し、トランスクリプトを追記します。
	AppendMessage(brewID string, m *message.Message) error

	// SetTranscript は、トランスクリプトだけを無条件に上書きします。
	// Messages と食い違う状態を作れてしまうため、通常の追記には
	// AppendMessage を使ってください。
	SetTranscript(brewID string, transcript string) error

	// UpdateMessageByID は、ID が一致するメッセージを差し替えます。
	// トランスクリプトには触れません。
	UpdateMessageByID(brewID, messageID string, m *message.Message) error

	// Reset は、1つの brew の会話を空に戻します。
	Reset(brewID string) error

	// ClearAll は、すべての brew の会話状態を破棄します。
	ClearAll() error
}

// FormatForTranscript は、1件のメッセージをトランスクリプト形式に整形します。
// ユーザー発言は "User: 本文\n"、AI応答はセグメントごとに "話者: 本文\n" です。
func FormatForTranscript(m *message.Message) string {
	if m.IsUser {
		return fmt.Sprintf("User: %s\n", m.Text)
	}
	var out string
	for _, s := range m.Segments {
		out += fmt.Sprintf("%s: %s\n", s.Speaker, s.Text)
	}
	return out
}
