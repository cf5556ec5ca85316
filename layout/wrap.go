package layout

import "strings"

// Metrics measures rendered text width. A Surface satisfies Metrics, but the
// wrap engine only depends on this narrow contract so tests and alternative
// font backends can stand in.
type Metrics interface {
	MeasureText(text string, font Font) (float64, error)
}

// Wrap breaks text into lines that fit maxWidth, measuring with m.
//
// The algorithm is greedy and word-atomic: tokens are whitespace-separated
// words, and a token is never split. A single token wider than maxWidth is
// placed alone on its own line and allowed to overflow visually; losing
// characters would be worse than losing alignment. Empty or blank input
// yields a single empty line so row heights never collapse to zero.
//
// Wrapping is a pure function of its arguments. If the metrics provider
// fails, Wrap falls back to a fixed characters-per-line estimate instead of
// aborting the render.
func Wrap(m Metrics, text string, font Font, maxWidth float64) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 1)
	current := ""
	for _, tok := range tokens {
		candidate := tok
		if current != "" {
			candidate = current + " " + tok
		}
		w, err := m.MeasureText(candidate, font)
		if err != nil {
			return wrapByCount(tokens, font, maxWidth)
		}
		if w <= maxWidth || current == "" {
			// An over-wide first token stays on the line unsplit.
			current = candidate
			if w > maxWidth && current == tok {
				lines = append(lines, current)
				current = ""
			}
			continue
		}
		lines = append(lines, current)
		current = tok
		if tw, err := m.MeasureText(tok, font); err != nil {
			return wrapByCount(tokens, font, maxWidth)
		} else if tw > maxWidth {
			lines = append(lines, current)
			current = ""
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// wrapByCount is the degraded path used when text measurement is
// unavailable: it assumes a glyph is roughly half the font size wide.
func wrapByCount(tokens []string, font Font, maxWidth float64) []string {
	perLine := 1
	if font.Size > 0 {
		if n := int(maxWidth / (font.Size * 0.5)); n > 1 {
			perLine = n
		}
	}

	lines := make([]string, 0, 1)
	current := ""
	for _, tok := range tokens {
		switch {
		case current == "":
			current = tok
		case len(current)+1+len(tok) <= perLine:
			current += " " + tok
		default:
			lines = append(lines, current)
			current = tok
		}
		if len(current) > perLine && current == tok {
			lines = append(lines, current)
			current = ""
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
