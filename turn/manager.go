package turn

import "errors"

// ErrTurnInFlight は、同じ brew で別のターンが進行中のときに返されます。
var ErrTurnInFlight = errors.New("turn already in flight for this brew")

// Manager は、brew ごとのターンの排他を管理します。
// 1つの brew で同時に進行できるターンは1つだけです。
type Manager interface {
	// TryAcquire は、brew のターンの取得を試みます。
	// 既にターンが進行中の場合は待たずに ErrTurnInFlight を返します。
	TryAcquire(brewID string) error

	// Release は、保持しているターンを解放します。
	Release(brewID string)
}
