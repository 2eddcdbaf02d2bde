package translator

import "context"

// Translator maps one translation unit to translated text for a
// language pair. Implementations must return plain text with no added
// commentary.
type Translator interface {
	Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error)
}
