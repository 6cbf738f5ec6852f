package navigation

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	tokenSplitRe = regexp.MustCompile(`[-_.\s]+`)
	numericRe    = regexp.MustCompile(`^\d+$`)
	versionRe    = regexp.MustCompile(`^[vV]\d+$`)
)

var knownTerms = map[string]string{
	"api":       "API",
	"apis":      "APIs",
	"http":      "HTTP",
	"https":     "HTTPS",
	"json":      "JSON",
	"xml":       "XML",
	"oauth":     "OAuth",
	"jwt":       "JWT",
	"rest":      "REST",
	"graphql":   "GraphQL",
	"websocket": "WebSocket",
	"sdk":       "SDK",
	"cli":       "CLI",
	"faq":       "FAQ",
	"ui":        "UI",
	"ux":        "UX",
}

// FormatDirectoryName turns a directory name into a display label:
// "01-getting_started" becomes "Getting Started", "rest-api" becomes
// "REST API" and "v2" becomes "V2".
func FormatDirectoryName(name string) string {
	tokens := tokenSplitRe.Split(strings.TrimSpace(name), -1)
	// Casers carry state and must not be shared across goroutines.
	caser := cases.Title(language.English, cases.NoLower)
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case tok == "":
			continue
		case numericRe.MatchString(tok):
			continue
		case versionRe.MatchString(tok):
			words = append(words, strings.ToUpper(tok))
		default:
			if term, ok := knownTerms[strings.ToLower(tok)]; ok {
				words = append(words, term)
			} else {
				words = append(words, caser.String(tok))
			}
		}
	}
	if len(words) == 0 {
		return name
	}
	return strings.Join(words, " ")
}
