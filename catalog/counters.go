package catalog

import (
	"context"
	"log/slog"
	"strconv"
)

// Usage は、1ターンで利用された Brew の構成要素を表します。
type Usage struct {
	CharacterIDs []string
	SceneID      string
	ModIDs       []string
}

// IncrementMessageCounts は、キャラクター・舞台・Mod の利用回数カウンターを
// 1ずつ加算します。各加算はベストエフォートで、失敗はログに残すだけです。
// 会話のターンを止めないため、エラーは返しません。
func (p *Postgres) IncrementMessageCounts(ctx context.Context, u Usage) {
	if ids := toInt64s(u.CharacterIDs); len(ids) > 0 {
		if _, err := p.pool.Exec(ctx,
			`UPDATE characters SET message_count = message_count + 1 WHERE id = ANY($1)`, ids,
		); err != nil {
			slog.Warn("catalog: failed to update character message counts", "error", err)
		}
	}

	if u.SceneID != "" {
		if ids := toInt64s([]string{u.SceneID}); len(ids) > 0 {
			if _, err := p.pool.Exec(ctx,
				`UPDATE scenes SET message_count = message_count + 1 WHERE id = ANY($1)`, ids,
			); err != nil {
				slog.Warn("catalog: failed to update scene message count", "error", err)
			}
		}
	}

	if ids := toInt64s(u.ModIDs); len(ids) > 0 {
		if _, err := p.pool.Exec(ctx,
			`UPDATE mods SET message_count = message_count + 1 WHERE id = ANY($1)`, ids,
		); err != nil {
			slog.Warn("catalog: failed to update mod message counts", "error", err)
		}
	}
}

// toInt64s は、数値でないIDを読み飛ばしつつ文字列IDを int64 に変換します。
func toInt64s(ids []string) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
