package renderer

import (
	"context"

	"github.com/sat8bit/brew/bus"
)

// Renderer は、会話のレンダリングを行うコンポーネントが満たすべきインターフェースです。
type Renderer interface {
	// Render は、バスの購読を開始し、会話の描画処理を起動します。
	Render(ctx context.Context, bus bus.Bus) error
}
