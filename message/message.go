package message

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NarratorSpeaker は、キャラクター以外の地の文に付く擬似話者名です。
const NarratorSpeaker = "Narrator"

// Segment は、生成結果から切り出された、話者付きの1行を表します。
// 話者はキャラクター名、または擬似話者 "Narrator" です。
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Message は、会話に追加される1件のメッセージです。
// ユーザーの発言か、AIの応答（Segments 付き）のどちらかです。
// 一度追加された Message は、ID 指定の差し替え以外では変更されません。
type Message struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	IsUser   bool      `json:"isUser"`
	Segments []Segment `json:"speakerSegments,omitempty"`
	At       time.Time `json:"at"`
}

// NewUser は、ユーザー発言の Message を生成します。
func NewUser(text string) *Message {
	return &Message{
		ID:     uuid.NewString(),
		Text:   text,
		IsUser: true,
		At:     time.Now(),
	}
}

// NewFallback は、生成に失敗したときに差し込む固定文面のAIメッセージを生成します。
// 話者セグメントを持たないため、トランスクリプトには現れません。
func NewFallback(text string) *Message {
	return &Message{
		ID:     uuid.NewString(),
		Text:   text,
		IsUser: false,
		At:     time.Now(),
	}
}

// NewAI は、話者セグメントの列から AI 応答の Message を生成します。
// 表示用の Text は、各セグメントの本文を改行で連結したものです。
func NewAI(segments []Segment) *Message {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	return &Message{
		ID:       uuid.NewString(),
		Text:     strings.Join(texts, "\n"),
		IsUser:   false,
		Segments: segments,
		At:       time.Now(),
	}
}
