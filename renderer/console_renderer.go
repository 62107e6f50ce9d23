package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/sat8bit/brew/bus"
	"github.com/sat8bit/brew/message"
)

func NewConsoleRenderer() *ConsoleRenderer {
	return &ConsoleRenderer{}
}

// ConsoleRenderer は、会話を標準出力に描画します。
type ConsoleRenderer struct {
}

func (c *ConsoleRenderer) Render(ctx context.Context, b bus.Bus) error {
	ch := b.Subscribe()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				c.print(e)
			}
		}
	}()

	return nil
}

func (c *ConsoleRenderer) print(e *message.Event) {
	switch e.Kind {
	case message.KindSystem:
		fmt.Printf("[System] %s\n", e.Text)
	case message.KindError:
		fmt.Printf("[Error] %s\n", e.Text)
	case message.KindLog:
		fmt.Printf("  %s\n", e.Text)
	case message.KindUser:
		fmt.Printf("You: %s\n", e.Message.Text)
	case message.KindAI:
		if len(e.Message.Segments) == 0 {
			// 代替メッセージなど、話者を持たない応答
			fmt.Println(e.Message.Text)
			return
		}
		for _, s := range e.Message.Segments {
			fmt.Printf("%s: ", s.Speaker)
			// 本文を rune で切って1文字ずつ表示する効果
			for _, r := range s.Text {
				fmt.Print(string(r))
				time.Sleep(15 * time.Millisecond)
			}
			fmt.Println()
		}
	}
}

// コンパイル時に Renderer インターフェースを実装していることを保証します。
var _ Renderer = (*ConsoleRenderer)(nil)
