package accounting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sat8bit/brew/brew"
	buspkg "github.com/sat8bit/brew/bus"
	"github.com/sat8bit/brew/catalog"
	"github.com/sat8bit/brew/message"
)

type fakeSource struct {
	brews map[string]*brew.Brew
}

func (f *fakeSource) Brew(_ context.Context, id string) (*brew.Brew, error) {
	b, ok := f.brews[id]
	if !ok {
		return nil, fmt.Errorf("brew with id '%s' not found", id)
	}
	return b, nil
}

func (f *fakeSource) Brews(_ context.Context) ([]*brew.Brew, error) {
	return nil, nil
}

type fakeCounter struct {
	usages chan catalog.Usage
}

func (f *fakeCounter) IncrementMessageCounts(_ context.Context, u catalog.Usage) {
	f.usages <- u
}

func TestAccountant_RecordsUsageOnTurnEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{brews: map[string]*brew.Brew{
		"2": {
			ID:    "2",
			Scene: &brew.Scene{ID: "20"},
			Characters: []*brew.Character{
				{ID: "200"}, {ID: "201"},
			},
			Mods: []*brew.Mod{{ID: "7"}},
		},
	}}
	counter := &fakeCounter{usages: make(chan catalog.Usage, 1)}

	b := buspkg.NewMemoryBus()
	defer b.Close()
	NewAccountant(source, counter).Start(ctx, b)

	// 購読が立ち上がるまで少し待つ
	time.Sleep(10 * time.Millisecond)

	if err := b.Broadcast(&message.Event{Kind: message.KindTurn, BrewID: "2", At: time.Now()}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	select {
	case u := <-counter.usages:
		if u.SceneID != "20" {
			t.Errorf("expected scene 20, got %q", u.SceneID)
		}
		if len(u.CharacterIDs) != 2 {
			t.Errorf("expected 2 character ids, got %v", u.CharacterIDs)
		}
		if len(u.ModIDs) != 1 || u.ModIDs[0] != "7" {
			t.Errorf("expected mod 7, got %v", u.ModIDs)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for usage record")
	}
}

func TestAccountant_IgnoresNonTurnEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counter := &fakeCounter{usages: make(chan catalog.Usage, 1)}
	b := buspkg.NewMemoryBus()
	defer b.Close()
	NewAccountant(&fakeSource{}, counter).Start(ctx, b)

	time.Sleep(10 * time.Millisecond)

	if err := b.Broadcast(&message.Event{Kind: message.KindUser, BrewID: "2", At: time.Now()}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	select {
	case <-counter.usages:
		t.Fatal("non-turn events must not be counted")
	case <-time.After(50 * time.Millisecond):
	}
}
