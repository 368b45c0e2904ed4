package metrics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TermWidth returns the width of stdout's terminal, or 80 when stdout is not
// a terminal.
func TermWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// trimPrefix keeps the suffix of s when it is longer than max runes, marking
// the cut with "…".
func trimPrefix(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return "…" + string(runes[len(runes)-max+1:])
}

// WriteSummary writes a per-file token bar chart to w, bars normalized to the
// largest file, followed by a totals row. width is the total line width.
func WriteSummary(w io.Writer, m *OutputMetrics, width int) error {
	const (
		pctW    = 6
		tokensW = 7
		gapW    = 2
	)

	m.Wait()

	entries := m.Breakdown(TypeFile)
	total := m.SumBy(TypeFile)
	if len(entries) == 0 || total.Tokens == 0 {
		_, err := fmt.Fprintln(w, "No tokens recorded")
		return err
	}

	barW := int(float64(width) * 0.35)
	keyW := width - (barW + pctW + tokensW + gapW*3)
	if keyW < 8 {
		keyW = 8
	}
	maxTokens := entries[0].Tokens

	for _, e := range entries {
		barLen := int(float64(e.Tokens)/float64(maxTokens)*float64(barW) + 0.5)
		if barLen == 0 && e.Tokens > 0 {
			barLen = 1
		}
		pct := float64(e.Tokens) * 100 / float64(total.Tokens)
		_, err := fmt.Fprintf(w, "%-*s  %5.1f%%  %*d  %s\n",
			barW, strings.Repeat("█", barLen), pct, tokensW, e.Tokens, trimPrefix(e.Key.Key, keyW))
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%-*s  %5.1f%%  %*d  %s\n\nSummary: %d files, %d lines, %d tokens\n",
		barW, strings.Repeat("─", barW), 100.0, tokensW, total.Tokens, "TOTAL",
		len(entries), total.Lines, total.Tokens)
	return err
}
