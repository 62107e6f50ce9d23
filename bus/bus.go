package bus

import (
	"github.com/sat8bit/brew/message"
)

// Busはイベントの送受信責務を持つ
type Bus interface {
	Broadcast(e *message.Event) error
	Subscribe() <-chan *message.Event
	Close()
}
