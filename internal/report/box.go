// Package report renders the bordered result block printed after each
// command.
package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	defaultTitle = "Keycloak CLI"
	minWidth     = 80
)

// Render draws the report lines in a bordered box with a header carrying the
// Jira ticket and targeted realm. Width follows the longest line with an
// 80-column floor.
func Render(lines []string, jira, realmLabel string) string {
	header := headerText(jira, realmLabel)

	width := minWidth
	if len(header) > width {
		width = len(header)
	}
	for _, l := range lines {
		if len(l) > width {
			width = len(l)
		}
	}

	border := "|" + strings.Repeat(":", width+2) + "|"

	var b strings.Builder
	b.WriteString(border)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "| %-*s |\n", width, header)
	for _, l := range lines {
		fmt.Fprintf(&b, "| %-*s |\n", width, l)
	}
	b.WriteString(border)
	return b.String()
}

// Fprint writes the rendered box to w.
func Fprint(w io.Writer, lines []string, jira, realmLabel string) {
	fmt.Fprintln(w, Render(lines, jira, realmLabel))
}

func headerText(jira, realmLabel string) string {
	var parts []string
	if jira != "" {
		parts = append(parts, "Jira Ticket: "+jira)
	}
	if realmLabel != "" {
		parts = append(parts, "Current realm: "+realmLabel)
	}
	if len(parts) == 0 {
		return defaultTitle
	}
	return strings.Join(parts, " ::: ")
}
