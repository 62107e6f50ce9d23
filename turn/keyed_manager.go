package turn

import "sync"

// KeyedManager は turn.Manager の実装です。
// brewID ごとにバッファサイズ1のチャネルをセマフォとして持ち、
// このチャネルに書き込みができればターンを取得、
// このチャネルから読み込みができればターンを解放、とみなします。
type KeyedManager struct {
	mu    sync.Mutex
	turns map[string]chan struct{}
}

// NewKeyedManager は新しい KeyedManager を生成します。
func NewKeyedManager() Manager {
	return &KeyedManager{
		turns: make(map[string]chan struct{}),
	}
}

func (m *KeyedManager) channel(brewID string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.turns[brewID]
	if !ok {
		// バッファサイズ1のチャネルを作成します。
		// これにより、brew ごとに同時に1つのターンだけが進行できます。
		ch = make(chan struct{}, 1)
		m.turns[brewID] = ch
	}
	return ch
}

// TryAcquire は、brew のターンの取得を試みます。取得できなければ
// ブロックせずに ErrTurnInFlight を返します。進行中のターンを
// 待たせるのではなく拒否するのは、二重応答の競合を作らないためです。
func (m *KeyedManager) TryAcquire(brewID string) error {
	select {
	case m.channel(brewID) <- struct{}{}:
		return nil
	default:
		return ErrTurnInFlight
	}
}

// Release は、保持しているターンを解放します。
func (m *KeyedManager) Release(brewID string) {
	select {
	case <-m.channel(brewID):
		// チャネルから読み込むことで、バッファに空きを作り、
		// 次のターンを取得できるようにする。
	default:
		// Acquire していないのに Release を呼ばれた場合は、
		// 何もせず、パニックも起こさない。
	}
}

// コンパイル時に Manager インターフェースを実装していることを保証します。
var _ Manager = (*KeyedManager)(nil)
