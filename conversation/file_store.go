package conversation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/sat8bit/brew/message"
)

const stateFileName = "conversations.json"

// FileStore は Store インターフェースのファイル実装です。
// brewID → Conversation の対応全体を、1つのJSONファイルとして保持します。
// 変更のたびに全状態を同期的に書き戻します。バッチングはしません。
// ローカル1ユーザー・小規模履歴という前提の設計です。
type FileStore struct {
	path string

	mu            sync.Mutex
	conversations map[string]*Conversation
}

// NewFileStore は、dataDir 配下の状態ファイルを読み込んで FileStore を生成します。
// ファイルが存在しない、または壊れている場合は、ログを残して空の状態から始めます。
func NewFileStore(dataDir string) *FileStore {
	s := &FileStore{
		path:          filepath.Join(dataDir, stateFileName),
		conversations: make(map[string]*Conversation),
	}
	s.load()
	return s
}

func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("conversation.FileStore: failed to read state file, starting empty", "path", s.path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, &s.conversations); err != nil {
		slog.Warn("conversation.FileStore: corrupt state file, starting empty", "path", s.path, "error", err)
		s.conversations = make(map[string]*Conversation)
	}
}

// save は、全状態をファイルへ書き戻します。呼び出し側で mu を保持していること。
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.conversations, "", "  ")
	if err != nil {
		return fmt.Errorf("conversation.FileStore.save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("conversation.FileStore.save: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("conversation.FileStore.save: %w", err)
	}
	return nil
}

// Get は、brew の現在の会話のコピーを返します。未作成なら空の会話を返します。
func (s *FileStore) Get(brewID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[brewID]
	if !ok {
		return &Conversation{}
	}
	messages := make([]*message.Message, len(c.Messages))
	copy(messages, c.Messages)
	return &Conversation{Messages: messages, Transcript: c.Transcript}
}

// AppendMessage は、メッセージを追加し、トランスクリプトを追記し、永続化します。
// 会話は最初のメッセージで遅延生成されます。
func (s *FileStore) AppendMessage(brewID string, m *message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[brewID]
	if !ok {
		c = &Conversation{}
		s.conversations[brewID] = c
	}
	c.Messages = append(c.Messages, m)
	c.Transcript += FormatForTranscript(m)
	return s.save()
}

// SetTranscript は、トランスクリプトだけを上書きして永続化します。
func (s *FileStore) SetTranscript(brewID string, transcript string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[brewID]
	if !ok {
		c = &Conversation{}
		s.conversations[brewID] = c
	}
	c.Transcript = transcript
	return s.save()
}

// UpdateMessageByID は、ID が一致するメッセージを差し替えて永続化します。
// 一致するものがなければ何もしません。
func (s *FileStore) UpdateMessageByID(brewID, messageID string, m *message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[brewID]
	if !ok {
		return nil
	}
	for i, existing := range c.Messages {
		if existing.ID == messageID {
			c.Messages[i] = m
		}
	}
	return s.save()
}

// Reset は、1つの brew の会話を空に戻して永続化します。冪等です。
func (s *FileStore) Reset(brewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[brewID] = &Conversation{}
	return s.save()
}

// ClearAll は、メモリ上の状態と永続化ファイルの両方を破棄します。
func (s *FileStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[string]*Conversation)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("conversation.FileStore.ClearAll: %w", err)
	}
	return nil
}

// コンパイル時に Store インターフェースを実装していることを保証します。
var _ Store = (*FileStore)(nil)
