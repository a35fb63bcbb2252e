package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

// DefaultFolioTemplate renders folios like COT-2025-100. The sequence
// is intentionally not zero-padded.
const DefaultFolioTemplate = "{PREFIX}-{YYYY}-{SEQ}"

// FormatFolio formats a human-readable folio from a template, the
// document kind prefix, the scope's calendar year, and the allocated
// sequence number.
//
// This function is pure: no side effects, no storage access.
func FormatFolio(template string, kind Kind, year int, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("folio template is empty")
	}
	if kind == "" {
		return "", fmt.Errorf("folio kind is empty")
	}
	if year <= 0 {
		return "", fmt.Errorf("invalid folio year: %d", year)
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid folio sequence: %d", seq)
	}

	out := template

	out = strings.ReplaceAll(out, "{PREFIX}", string(kind))
	out = strings.ReplaceAll(out, "{YYYY}", strconv.Itoa(year))
	out = strings.ReplaceAll(out, "{YY}", fmt.Sprintf("%02d", year%100))

	// Simple sequence
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	// Padded sequence
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in folio format: %s", out)
	}

	return out, nil
}
