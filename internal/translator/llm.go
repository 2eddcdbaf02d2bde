package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/ferdale/srt-unit-translator/internal/llm"
)

type chatClient interface {
	SimpleChat(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// llmTranslator translates units through an OpenAI-compatible chat
// completion, one request per unit.
type llmTranslator struct {
	chat chatClient
}

// NewLLMTranslator creates a translator backed by the given LLM client.
func NewLLMTranslator(client *llm.Client) Translator {
	return &llmTranslator{chat: client}
}

func (t *llmTranslator) Translate(
	ctx context.Context,
	text string,
	sourceLanguage string,
	targetLanguage string,
) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	result, err := t.chat.SimpleChat(ctx, text, buildSystemPrompt(sourceLanguage, targetLanguage))
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	return cleanResponse(result), nil
}

// buildSystemPrompt builds the system prompt for one translation unit.
func buildSystemPrompt(sourceLanguage, targetLanguage string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a professional subtitle translator. Translate the user's subtitle text from " + sourceLanguage + " to " + targetLanguage + ".\n\n")
	prompt.WriteString("=== GUIDELINES ===\n")
	prompt.WriteString("1. Ensure the " + targetLanguage + " flows naturally while preserving meaning\n")
	prompt.WriteString("2. Keep the translation length appropriate for screen reading\n")
	prompt.WriteString("3. Do not translate proper names unless an official localized name exists\n")

	prompt.WriteString("\n=== OUTPUT FORMAT ===\n")
	prompt.WriteString("Return ONLY the translated text.\n")
	prompt.WriteString("Do not include any explanations, notes, quotes or additional text.\n")

	return prompt.String()
}

// cleanResponse trims the model output down to bare text: surrounding
// whitespace and one layer of wrapping quote characters.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)

	quotePairs := [][2]string{
		{`"`, `"`},
		{"'", "'"},
		{"“", "”"},
		{"„", "“"},
		{"«", "»"},
		{"「", "」"},
	}
	for _, pair := range quotePairs {
		if len(s) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
			break
		}
	}

	return s
}
