// Package locale guesses the reply locale from the customer's message.
package locale

import (
	"regexp"
	"strings"
)

// Default is returned when neither the message nor the caller decide.
const Default = "es-AR"

var (
	spanishMarks = regexp.MustCompile(`[áéíóúñ¡¿]`)
	spanishWords = regexp.MustCompile(`hola|gracias|buen[oa]s|consulta`)
	englishWords = regexp.MustCompile(`hello|hi|thanks|price|shipping`)
)

// Detect returns "es-AR" or "en-US" for a message, or fallback (or Default)
// when the message gives no hint. The Spanish check runs first.
func Detect(message, fallback string) string {
	if fallback == "" {
		fallback = Default
	}
	if message == "" {
		return fallback
	}

	s := strings.ToLower(message)
	switch {
	case spanishMarks.MatchString(s) || spanishWords.MatchString(s):
		return "es-AR"
	case englishWords.MatchString(s):
		return "en-US"
	default:
		return fallback
	}
}
