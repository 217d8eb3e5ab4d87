package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/keycloak-cli/internal/realms"
	"github.com/blackwell-systems/keycloak-cli/internal/reconcile"
	"github.com/blackwell-systems/keycloak-cli/internal/report"
)

// newSelector builds the realm selector of the current invocation.
func newSelector(allRealms bool) realms.Selector {
	return realms.Selector{
		All:      allRealms,
		Explicit: flagRealms,
		Fallback: cfg.Realm,
	}
}

// resolveTargets expands the selector once and records the realm label for
// the report header and audit record.
func resolveTargets(ctx context.Context, allRealms bool) ([]string, string, error) {
	sel := newSelector(allRealms)
	targets, err := realms.Resolve(ctx, kc, sel)
	if err != nil {
		return nil, "", err
	}
	label := realms.Label(sel, targets)
	sess.SetTargetRealms(label)
	return targets, label, nil
}

// printReport renders the boxed report through the session writer.
func printReport(rep *reconcile.Report) {
	report.Fprint(sess.Out(), rep.Lines, sess.Jira(), rep.RealmLabel)
}

// parseBool parses a true/false attribute value, naming the flag on error.
func parseBool(val, flag string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "t", "yes", "y":
		return true, nil
	case "false", "0", "f", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: use true/false", flag)
}

// prompt reads one line from stdin after writing the prompt text.
func prompt(w io.Writer, text string) string {
	fmt.Fprintf(w, "%s: ", text)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// splitCSV splits a comma-separated prompt answer into trimmed values.
func splitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
