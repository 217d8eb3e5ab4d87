package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// baseFlags rebuilds the invocation-wide flags so each batch line inherits
// them.
func baseFlags() []string {
	var parts []string
	if flagConfig != "" {
		parts = append(parts, "--config", flagConfig)
	}
	for _, r := range flagRealms {
		parts = append(parts, "--realm", r)
	}
	if flagLogFile != "" {
		parts = append(parts, "--log-file", flagLogFile)
	}
	if flagJira != "" {
		parts = append(parts, "--jira", flagJira)
	}
	return parts
}

// runCommandFile re-invokes the binary once per non-empty, non-comment line
// of the file, with the base flags prepended. Output flows through the
// session writers so the run log carries every child's output. Processing
// stops at the first failing command unless continueOnError is set.
func runCommandFile(path string, base []string, continueOnError bool, stdout, stderr io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cmd file not found: %s", path)
		}
		return err
	}

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args, err := splitCommand(line)
		if err != nil {
			return fmt.Errorf("bad command line %q: %w", line, err)
		}

		cmd := exec.Command(os.Args[0], append(append([]string{}, base...), args...)...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Run(); err != nil {
			if continueOnError {
				continue
			}
			return fmt.Errorf("command failed: %s", line)
		}
	}
	return nil
}

// splitCommand splits a command line into arguments, honoring single and
// double quotes.
func splitCommand(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inArg := false
	var quote rune

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
