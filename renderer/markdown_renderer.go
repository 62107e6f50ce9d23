package renderer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sat8bit/brew/bus"
	"github.com/sat8bit/brew/message"
)

func NewMarkdownRenderer(outputDir, brewName string) *MarkdownRenderer {
	return &MarkdownRenderer{
		outputDir: outputDir,
		brewName:  brewName,
		events:    make([]*message.Event, 0, 100),
	}
}

// MarkdownRenderer は、セッションの会話ログをMarkdownファイルとして書き出すレンダラーです。
type MarkdownRenderer struct {
	outputDir string
	brewName  string
	mu        sync.Mutex
	events    []*message.Event
}

// Render はバスを購読し、会話のログを収集します。
// context が Done になると、収集したログをファイルに書き出します。
func (m *MarkdownRenderer) Render(ctx context.Context, b bus.Bus) error {
	ch := b.Subscribe()

	go func() {
		for {
			select {
			case <-ctx.Done():
				// セッション終了時にファイルに書き出す
				if err := m.writeToFile(); err != nil {
					fmt.Fprintf(os.Stderr, "failed to write markdown log: %v\n", err)
				}
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				m.addEvent(e)
			}
		}
	}()

	return nil
}

func (m *MarkdownRenderer) addEvent(e *message.Event) {
	if e.Kind != message.KindUser && e.Kind != message.KindAI && e.Kind != message.KindSystem {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *MarkdownRenderer) writeToFile() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.events) == 0 {
		return nil
	}

	var sb strings.Builder

	sb.WriteString("+++\n")
	sb.WriteString(fmt.Sprintf("title = %q\n", m.brewName))
	sb.WriteString(fmt.Sprintf("date = %s\n", time.Now().Format(time.RFC3339)))
	sb.WriteString("tags = [\"brew\"]\n")
	sb.WriteString("+++\n\n")

	for _, e := range m.events {
		switch e.Kind {
		case message.KindSystem:
			sb.WriteString(fmt.Sprintf("> %s\n\n", e.Text))
		case message.KindUser:
			sb.WriteString(fmt.Sprintf("**You:** %s\n\n", e.Message.Text))
		case message.KindAI:
			if len(e.Message.Segments) == 0 {
				sb.WriteString(fmt.Sprintf("%s\n\n", e.Message.Text))
				continue
			}
			for _, s := range e.Message.Segments {
				sb.WriteString(fmt.Sprintf("**%s:** %s\n\n", s.Speaker, s.Text))
			}
		}
	}

	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// ファイル名を生成（brew 名とタイムスタンプ）
	fileName := fmt.Sprintf("%s-%s.md", slugify(m.brewName), time.Now().Format("20060102-150405"))
	filePath := filepath.Join(m.outputDir, fileName)

	return os.WriteFile(filePath, []byte(sb.String()), 0644)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// コンパイル時に Renderer インターフェースを実装していることを保証します。
var _ Renderer = (*MarkdownRenderer)(nil)
