// Package persona holds the first-person instructions sent with every chat
// call and assembles them with the résumé text into the system context.
package persona

import (
	_ "embed"
	"fmt"
	"os"
)

var (
	//go:embed prompts/fallback.md
	fallbackPrompt string

	//go:embed prompts/context.txt
	contextFormat string
)

// Fallback returns the persona used when no prompt file exists.
func Fallback() string {
	return fallbackPrompt
}

// LoadPrompt returns the contents of path verbatim, or the fallback persona
// when the file does not exist. Unreadable files fall back too; the second
// return value reports whether the file was used.
func LoadPrompt(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallbackPrompt, false
	}
	return string(data), true
}

// BuildContext wraps the persona and document text in the fixed system
// template. It is deterministic and does no I/O.
func BuildContext(persona, document string) string {
	return fmt.Sprintf(contextFormat, persona, document)
}
