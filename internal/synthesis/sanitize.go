package synthesis

import (
	"regexp"
	"strings"
)

// Native catalog descriptions embed link markup ("http://... [Display Name]")
// and trailing editorial boilerplate that has no place in a library overview.
var (
	linkMarkup    = regexp.MustCompile(`https?://\S+ \[([^\]]+)\]`)
	bareLink      = regexp.MustCompile(`https?://\S+`)
	attributionRe = regexp.MustCompile(`(?i)^[-—~*\s]*written by .*$`)
)

var boilerplatePrefixes = []string{
	"* ",
	"source:",
	"note:",
	"summary:",
}

// SanitizeDescription strips source-specific markup and boilerplate from a
// native catalog description: link markup collapses to its display text,
// bare links are dropped, and footnote/attribution lines are removed.
func SanitizeDescription(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = linkMarkup.ReplaceAllString(text, "$1")
	text = bareLink.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isBoilerplate(trimmed) {
			continue
		}
		if trimmed == "" {
			if blank || len(kept) == 0 {
				continue
			}
			blank = true
			kept = append(kept, "")
			continue
		}
		blank = false
		kept = append(kept, trimmed)
	}

	// Drop trailing blank line left by removed boilerplate.
	for len(kept) > 0 && kept[len(kept)-1] == "" {
		kept = kept[:len(kept)-1]
	}
	return strings.Join(kept, "\n")
}

func isBoilerplate(line string) bool {
	if line == "" {
		return false
	}
	lower := strings.ToLower(line)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return attributionRe.MatchString(line)
}
