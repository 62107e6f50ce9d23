package bus

import (
	"testing"
	"time"

	"github.com/sat8bit/brew/message"
)

func TestMemoryBus_DeliversToAllSubscribers(t *testing.T) {
	b := NewMemoryBus()
	defer b.Close()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	e := &message.Event{Kind: message.KindSystem, Text: "hello", At: time.Now()}
	if err := b.Broadcast(e); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for i, ch := range []<-chan *message.Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Text != "hello" {
				t.Errorf("subscriber %d: got %q", i, got.Text)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out", i)
		}
	}
}

func TestMemoryBus_BroadcastAfterClose(t *testing.T) {
	b := NewMemoryBus()
	b.Close()

	if err := b.Broadcast(&message.Event{Kind: message.KindSystem}); err == nil {
		t.Fatal("expected an error broadcasting on a closed bus")
	}
}

func TestMemoryBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewMemoryBus()
	defer b.Close()

	b.Subscribe() // 誰も読まない購読者

	// バッファ(16)を超えてもブロックしないこと
	for i := 0; i < 32; i++ {
		if err := b.Broadcast(&message.Event{Kind: message.KindLog}); err != nil {
			t.Fatalf("broadcast %d: %v", i, err)
		}
	}
}
