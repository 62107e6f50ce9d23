// Package prompt は、Brew の構成と会話履歴から、生成サービスに渡す
// 自然言語プロンプトを組み立てます。
package prompt

import (
	"fmt"
	"strings"

	"github.com/sat8bit/brew/brew"
)

// Opening は、会話の最初のターン用のプロンプトを組み立てます。
// Brew の唯一のキャラクターが、自分と舞台を紹介するためのものです。
func Opening(b *brew.Brew) string {
	c := b.Characters[0]
	var sb strings.Builder

	sb.WriteString("You are roleplaying a character in an interactive scene. This is the start of the conversation.\n\n")
	sb.WriteString(sceneLine(b.Scene))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Character Profile - %s:\n", c.Name)
	fmt.Fprintf(&sb, "Background: %s\n", c.Background)
	fmt.Fprintf(&sb, "Personality: %s\n", c.PersonalityTraits)
	fmt.Fprintf(&sb, "Motivations: %s\n", c.Motivations)
	fmt.Fprintf(&sb, "Fears: %s\n", c.Fears)
	fmt.Fprintf(&sb, "Typical Introduction: %s\n", c.IntroText)
	fmt.Fprintf(&sb, "Speech Pattern: %s\n", c.DialogueStyle)

	writeMods(&sb, b.Mods)

	sb.WriteString("\nRoleplay Instructions:\n")
	sb.WriteString("- Respond as the character and a narrator, showing their unique personality\n")
	sb.WriteString("- Use their established dialogue style and speech patterns\n")
	sb.WriteString("- Show their motivations and fears through their responses\n")
	sb.WriteString("- Use *asterisks* to indicate character actions/emotes\n")
	sb.WriteString("- Actions should be in third-person\n")
	sb.WriteString("- Dialogue should feel natural and in-character\n")
	if len(b.Mods) > 0 {
		sb.WriteString("- Incorporate the themes and elements from the active mods\n")
	}

	sb.WriteString("\nFormat response like this:\n\n")
	fmt.Fprintf(&sb, "%s: Character response and actions if necessary (ONE LINE)\n\n", c.Name)
	sb.WriteString("Narrator: What happens in the scene that is not a character's response or a character's actions\n\n")
	sb.WriteString("Generate a response that introduces the character in their signature style:")

	return sb.String()
}

// Reply は、指定キャラクターとして応答するターン用のプロンプトを組み立てます。
// transcript には、直前のユーザー発言までを含む会話履歴全体を渡します。
func Reply(b *brew.Brew, c *brew.Character, transcript string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are roleplaying as %s in an interactive scene.\n\n", c.Name)
	sb.WriteString(sceneLine(b.Scene))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Character Profile - %s:\n", c.Name)
	fmt.Fprintf(&sb, "Background: %s\n", c.Background)
	fmt.Fprintf(&sb, "Personality: %s\n", c.PersonalityTraits)
	fmt.Fprintf(&sb, "Motivations: %s\n", c.Motivations)
	fmt.Fprintf(&sb, "Fears: %s\n", c.Fears)
	fmt.Fprintf(&sb, "Speech Pattern: %s\n", c.DialogueStyle)

	writeMods(&sb, b.Mods)

	fmt.Fprintf(&sb, "\nYou must respond as %s with dialogue and actions that reflect their:\n", c.Name)
	sb.WriteString("- Unique personality traits and background\n")
	sb.WriteString("- Established speech patterns and mannerisms\n")
	sb.WriteString("- Personal motivations and fears\n")
	sb.WriteString("- Character development based on the conversation history\n")

	sb.WriteString("\nRoleplay Instructions:\n")
	fmt.Fprintf(&sb, "- Respond only as %s and optionally a narrator\n", c.Name)
	sb.WriteString("- Use *asterisks* to indicate character actions/emotes\n")
	sb.WriteString("- Actions should be in third-person\n")
	sb.WriteString("- Dialogue should feel natural and match their established style\n")
	sb.WriteString("- Consider the context of the previous messages\n")
	if len(b.Mods) > 0 {
		sb.WriteString("- Incorporate the themes and elements from the active mods\n")
	}

	sb.WriteString("\nFormat response like this:\n\n")
	fmt.Fprintf(&sb, "%s: Character response and actions (ONE LINE)\n\n", c.Name)
	sb.WriteString("Narrator (OPTIONAL | DO NOT SHOW NARRATOR NAME IF NARRATOR IS NOT RESPONDING): What happens in the scene that is not a character's response or a character's actions (USE IF NEEDED)\n\n")

	sb.WriteString("Conversation history:\n")
	sb.WriteString(transcript)
	sb.WriteString("\nGenerate a response that stays true to the character's established personality:")

	return sb.String()
}

func sceneLine(s *brew.Scene) string {
	return fmt.Sprintf("Scene: %s. %s", s.Name, s.Description)
}

func writeMods(sb *strings.Builder, mods []*brew.Mod) {
	if len(mods) == 0 {
		return
	}
	sb.WriteString("\nActive Mods:\n")
	for _, m := range mods {
		fmt.Fprintf(sb, "%s: %s\n", m.Name, m.Description)
	}
}
