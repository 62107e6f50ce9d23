package conversation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sat8bit/brew/message"
)

func TestAppendMessage_AppendOnly(t *testing.T) {
	s := NewFileStore(t.TempDir())

	before := len(s.Get("1").Messages)
	for i := 0; i < 5; i++ {
		if err := s.AppendMessage("1", message.NewUser("hello")); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	after := len(s.Get("1").Messages)
	if after != before+5 {
		t.Fatalf("expected %d messages, got %d", before+5, after)
	}
}

func TestAppendMessage_UserTranscriptFormat(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.AppendMessage("1", message.NewUser("Hello there")); err != nil {
		t.Fatalf("append: %v", err)
	}

	if got := s.Get("1").Transcript; got != "User: Hello there\n" {
		t.Errorf("expected %q, got %q", "User: Hello there\n", got)
	}
}

func TestAppendMessage_SegmentsTranscriptFormat(t *testing.T) {
	s := NewFileStore(t.TempDir())

	m := message.NewAI([]message.Segment{
		{Speaker: "Edmund Hale", Text: "Who goes there?"},
		{Speaker: "Narrator", Text: "The lamp gutters."},
	})
	if err := s.AppendMessage("1", m); err != nil {
		t.Fatalf("append: %v", err)
	}

	want := "Edmund Hale: Who goes there?\nNarrator: The lamp gutters.\n"
	if got := s.Get("1").Transcript; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// A fallback message carries no segments, so it must leave the transcript alone.
func TestAppendMessage_FallbackLeavesTranscriptUntouched(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.AppendMessage("1", message.NewUser("hi")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendMessage("1", message.NewFallback("Sorry.")); err != nil {
		t.Fatalf("append fallback: %v", err)
	}

	c := s.Get("1")
	if len(c.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(c.Messages))
	}
	if c.Transcript != "User: hi\n" {
		t.Errorf("expected transcript unchanged, got %q", c.Transcript)
	}
}

func TestSetTranscript_OverwritesIndependently(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.AppendMessage("1", message.NewUser("hi")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.SetTranscript("1", "raw override\n"); err != nil {
		t.Fatalf("set transcript: %v", err)
	}

	c := s.Get("1")
	if c.Transcript != "raw override\n" {
		t.Errorf("expected raw override, got %q", c.Transcript)
	}
	if len(c.Messages) != 1 {
		t.Errorf("messages must not be touched, got %d", len(c.Messages))
	}
}

func TestReset_Idempotent(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.AppendMessage("1", message.NewUser("hi")); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.Reset("1"); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if err := s.Reset("1"); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	c := s.Get("1")
	if len(c.Messages) != 0 || c.Transcript != "" {
		t.Errorf("expected empty conversation, got %d messages, transcript %q", len(c.Messages), c.Transcript)
	}
}

func TestUpdateMessageByID(t *testing.T) {
	s := NewFileStore(t.TempDir())

	m := message.NewUser("original")
	if err := s.AppendMessage("1", m); err != nil {
		t.Fatalf("append: %v", err)
	}

	updated := message.NewUser("edited")
	updated.ID = m.ID
	if err := s.UpdateMessageByID("1", m.ID, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	c := s.Get("1")
	if c.Messages[0].Text != "edited" {
		t.Errorf("expected edited text, got %q", c.Messages[0].Text)
	}
	// トランスクリプトは触らない
	if c.Transcript != "User: original\n" {
		t.Errorf("transcript must be untouched, got %q", c.Transcript)
	}
}

func TestFileStore_PersistsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()

	s := NewFileStore(dir)
	if err := s.AppendMessage("1", message.NewUser("survives")); err != nil {
		t.Fatalf("append: %v", err)
	}

	reopened := NewFileStore(dir)
	c := reopened.Get("1")
	if len(c.Messages) != 1 || c.Messages[0].Text != "survives" {
		t.Fatalf("expected persisted message, got %+v", c.Messages)
	}
	if c.Transcript != "User: survives\n" {
		t.Errorf("expected persisted transcript, got %q", c.Transcript)
	}
}

func TestFileStore_CorruptStateStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, stateFileName), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}

	s := NewFileStore(dir)
	if got := len(s.Get("1").Messages); got != 0 {
		t.Fatalf("expected empty state, got %d messages", got)
	}
}

func TestClearAll_RemovesPersistedState(t *testing.T) {
	dir := t.TempDir()

	s := NewFileStore(dir)
	if err := s.AppendMessage("1", message.NewUser("gone")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, stateFileName)); !os.IsNotExist(err) {
		t.Errorf("expected state file removed, stat err = %v", err)
	}
	if got := len(NewFileStore(dir).Get("1").Messages); got != 0 {
		t.Errorf("expected empty state after clear, got %d messages", got)
	}
}
