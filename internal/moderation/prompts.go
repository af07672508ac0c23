package moderation

import (
	"fmt"
	"strings"
)

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func buildStoryPrompt(userPrompt, genre, tone, lengthLabel string) string {
	if lengthLabel == "" {
		lengthLabel = "short"
	}
	return strings.TrimSpace(fmt.Sprintf(`
You are a skilled fiction writer. Write a complete short story based on the instructions below.

Output STRICTLY valid, minimal HTML. Use:
- <h1> for the title (if you invent one)
- <p> for paragraphs (no extra CSS)
- <em> for whispers or inner thoughts
- Use explicit line breaks with <br/> only inside poems/notes
- When a sound effect occurs, insert a bracketed cue like [SFX: door slam]
- Do NOT include <html>, <head>, or <body> tags. Only the story fragment HTML.

Constraints:
- Genre: %s
- Tone: %s
- Length: %s (aim within that range)
- Keep it readable on web; short paragraphs.

Instructions/theme:
%s
`, orAny(genre), orAny(tone), lengthLabel, userPrompt))
}

func buildRegenPrompt(basePrompt, feedback string) string {
	return "Revise the following short story per the reader feedback.\n\n" +
		"Guidelines:\n" +
		"- Preserve the core idea and characters.\n" +
		"- Improve pacing and clarity.\n" +
		"- Keep the same length range.\n" +
		"- Avoid explicit sexual content, hate speech, and graphic violence.\n\n" +
		"Original instructions/context:\n" + basePrompt + "\n\n" +
		"Reader feedback to address:\n" + feedback + "\n\n" +
		"Return only the revised story text, no commentary."
}

// defaultTitleFrom promotes the first line of generated text to a title
// when it looks like one
func defaultTitleFrom(text string) string {
	const fallback = "Untitled Story"
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallback
	}
	line := strings.TrimSpace(strings.SplitN(trimmed, "\n", 2)[0])
	if len(line) >= 5 && len(line) <= 80 {
		return line
	}
	return fallback
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
