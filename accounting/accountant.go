// Package accounting は、ターンごとの利用回数計上を担います。
// バスのターン開始イベントを購読し、その brew のキャラクター・舞台・Mod の
// カウンターをベストエフォートで加算します。失敗はログに残すだけで、
// 会話のターンを止めることはありません。
package accounting

import (
	"context"
	"log/slog"
	"time"

	"github.com/sat8bit/brew/brew"
	buspkg "github.com/sat8bit/brew/bus"
	"github.com/sat8bit/brew/catalog"
	"github.com/sat8bit/brew/message"
)

// Counter は、利用回数カウンターの加算先です。catalog.Postgres が実装します。
type Counter interface {
	IncrementMessageCounts(ctx context.Context, u catalog.Usage)
}

// Accountant は、バスを購読して利用回数を計上します。
type Accountant struct {
	source  brew.Source
	counter Counter
}

// NewAccountant は、新しい Accountant を生成します。
func NewAccountant(source brew.Source, counter Counter) *Accountant {
	return &Accountant{
		source:  source,
		counter: counter,
	}
}

// Start は、計上ループを開始します。ctx が Done になると止まります。
func (a *Accountant) Start(ctx context.Context, bus buspkg.Bus) {
	ch := bus.Subscribe()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				if e.Kind != message.KindTurn {
					continue
				}
				a.record(ctx, e.BrewID)
			}
		}
	}()
}

func (a *Accountant) record(ctx context.Context, brewID string) {
	rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	b, err := a.source.Brew(rctx, brewID)
	if err != nil {
		slog.Warn("accounting: failed to resolve brew for usage counters", "brewId", brewID, "error", err)
		return
	}

	u := catalog.Usage{SceneID: b.Scene.ID}
	for _, c := range b.Characters {
		u.CharacterIDs = append(u.CharacterIDs, c.ID)
	}
	for _, m := range b.Mods {
		u.ModIDs = append(u.ModIDs, m.ID)
	}

	a.counter.IncrementMessageCounts(rctx, u)
}

// コンパイル時に catalog.Postgres が Counter を実装していることを保証します。
var _ Counter = (*catalog.Postgres)(nil)
