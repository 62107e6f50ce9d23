package prompt

import (
	"strings"
	"testing"

	"github.com/sat8bit/brew/brew"
)

func testBrew() *brew.Brew {
	return &brew.Brew{
		ID:   "1",
		Name: "The Starling Job",
		Scene: &brew.Scene{
			Name:        "The Starling Hotel, 1926",
			Description: "A jazz-soaked hotel lobby.",
		},
		Characters: []*brew.Character{{
			Name:              "Vivian Crane",
			Background:        "Raised in a carnival.",
			PersonalityTraits: "Charming, calculating.",
			Motivations:       "The pearls in suite 404.",
			Fears:             "Locked doors.",
			IntroText:         "Vivian smooths her gloves.",
			DialogueStyle:     "Silky, teasing.",
		}},
	}
}

func TestOpening_CarriesProfileAndFormat(t *testing.T) {
	p := Opening(testBrew())

	for _, want := range []string{
		"This is the start of the conversation.",
		"Scene: The Starling Hotel, 1926. A jazz-soaked hotel lobby.",
		"Character Profile - Vivian Crane:",
		"Background: Raised in a carnival.",
		"Personality: Charming, calculating.",
		"Motivations: The pearls in suite 404.",
		"Fears: Locked doors.",
		"Typical Introduction: Vivian smooths her gloves.",
		"Speech Pattern: Silky, teasing.",
		"Vivian Crane: Character response and actions if necessary (ONE LINE)",
		"introduces the character in their signature style:",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("opening prompt missing %q", want)
		}
	}

	if strings.Contains(p, "Active Mods:") {
		t.Error("opening prompt must not mention mods when there are none")
	}
	if strings.Contains(p, "Conversation history:") {
		t.Error("opening prompt must not carry a history section")
	}
}

func TestReply_CarriesHistoryAndOmitsIntro(t *testing.T) {
	b := testBrew()
	p := Reply(b, b.Characters[0], "User: Hello\nVivian Crane: Darling.\n")

	for _, want := range []string{
		"You are roleplaying as Vivian Crane in an interactive scene.",
		"Conversation history:\nUser: Hello\nVivian Crane: Darling.\n",
		"Narrator (OPTIONAL",
		"stays true to the character's established personality:",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("reply prompt missing %q", want)
		}
	}

	if strings.Contains(p, "Typical Introduction:") {
		t.Error("reply prompt must not carry the intro line")
	}
}

func TestPrompts_IncludeActiveMods(t *testing.T) {
	b := testBrew()
	b.Mods = []*brew.Mod{{Name: "Film Noir", Description: "Rain on the windows."}}

	for name, p := range map[string]string{
		"opening": Opening(b),
		"reply":   Reply(b, b.Characters[0], ""),
	} {
		if !strings.Contains(p, "Active Mods:\nFilm Noir: Rain on the windows.") {
			t.Errorf("%s prompt missing mods block", name)
		}
		if !strings.Contains(p, "Incorporate the themes and elements from the active mods") {
			t.Errorf("%s prompt missing mods instruction", name)
		}
	}
}
