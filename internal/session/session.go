// Package session owns the lifecycle of one CLI invocation: the run log,
// the start/end bracket lines, and the exactly-once audit record.
package session

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/blackwell-systems/keycloak-cli/internal/audit"
	"github.com/blackwell-systems/keycloak-cli/internal/config"
)

// DefaultLogFile is the run log used when none is given.
const DefaultLogFile = "kc.log"

// Session wraps one invocation. Every console line is duplicated verbatim
// into the log file, and exactly one of FinishOK/FinishError takes effect
// even when both the normal-return and error-unwind paths reach it.
type Session struct {
	cfg      *config.Config
	appender *audit.Appender
	logPath  string
	jira     string

	mu          sync.Mutex
	startedAt   time.Time
	ended       bool
	logFile     *os.File
	out         io.Writer
	errOut      io.Writer
	commandPath string
	targetLabel string
	details     []string
}

// New builds a Session. Nothing is opened until Start.
func New(cfg *config.Config, appender *audit.Appender, logPath, jira string) *Session {
	if logPath == "" {
		logPath = DefaultLogFile
	}
	return &Session{
		cfg:      cfg,
		appender: appender,
		logPath:  logPath,
		jira:     jira,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// Start opens the log file, installs the tee writers, records the start
// time, and writes the START bracket line.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	s.logFile = f
	s.out = io.MultiWriter(os.Stdout, f)
	s.errOut = io.MultiWriter(os.Stderr, f)
	s.startedAt = time.Now().UTC()
	s.ended = false

	fmt.Fprintf(s.errOut, "[%s] START: %s\n", s.startedAt.Format(time.RFC3339), RawCommand())
	return nil
}

// Out returns the console writer (stdout + log file).
func (s *Session) Out() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

// Err returns the error writer (stderr + log file).
func (s *Session) Err() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errOut
}

// Jira returns the Jira ticket annotation for report headers.
func (s *Session) Jira() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jira
}

// SetJira records a ticket supplied interactively after startup.
func (s *Session) SetJira(ticket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jira = ticket
}

// SetCommandPath records the executing command's path for the audit record.
func (s *Session) SetCommandPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commandPath = path
}

// SetTargetRealms records the resolved realm label for the audit record.
func (s *Session) SetTargetRealms(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targetLabel = label
}

// AddAuditDetails appends free-text details (e.g. generated passwords) to
// the audit record's details column.
func (s *Session) AddAuditDetails(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = append(s.details, detail)
}

// FinishOK ends the session with status ok. A second finish call from
// either path is a no-op.
func (s *Session) FinishOK() {
	s.finish("ok", nil)
}

// FinishError ends the session with status error, recording err.
func (s *Session) FinishError(err error) {
	s.finish("error", err)
}

func (s *Session) finish(status string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}
	s.ended = true

	started := s.startedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}
	end := time.Now().UTC()
	dur := end.Sub(started)

	if cause != nil {
		fmt.Fprintf(s.errOut, "[%s] ERROR: %v\n", end.Format(time.RFC3339), cause)
	}
	fmt.Fprintf(s.errOut, "[%s] END: status=%s dur=%s\n\n", end.Format(time.RFC3339), status, dur)

	rec := audit.Record{
		Timestamp:    end,
		Status:       status,
		CommandPath:  s.commandPath,
		RawCommand:   RawCommand(),
		Jira:         s.jira,
		Actor:        audit.ResolveActor(s.cfg),
		AuthRealm:    s.cfg.AuthRealm,
		TargetRealms: s.targetLabel,
		Duration:     dur,
		Details:      strings.Join(s.details, "; "),
	}
	if err := s.appender.Append(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write audit record: %v\n", err)
	}

	if s.logFile != nil {
		s.logFile.Sync()
		s.logFile.Close()
		s.logFile = nil
	}
	s.out = os.Stdout
	s.errOut = os.Stderr
}

// RawCommand reconstructs the invocation string for logs and audit rows.
func RawCommand() string {
	if len(os.Args) <= 1 {
		return "./kc"
	}
	return "./kc " + strings.Join(os.Args[1:], " ")
}
