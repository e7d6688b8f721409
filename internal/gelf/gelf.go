// Package gelf ships the process log to Graylog over UDP. It layers
// under the standard log package via log.SetOutput(io.MultiWriter(...)),
// so nothing else in the server needs to know about it.
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Syslog-style severity levels used in GELF payloads.
const (
	levelError   = 3
	levelWarning = 4
	levelInfo    = 6
)

// Writer is an io.Writer that emits one GELF 1.1 message per Write call.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New dials a GELF UDP endpoint (e.g. "172.17.0.1:12201"). The service
// name ends up in the _service field of every message.
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Write sends one message. The standard log package hands us lines like
// "2006/01/02 15:04:05 message\n"; the date prefix and trailing newline
// are stripped for a clean short_message. Send errors are swallowed so a
// dead Graylog never breaks logging.
func (w *Writer) Write(p []byte) (int, error) {
	short := strings.TrimRight(string(p), "\n")

	// The stdlib date/time prefix is exactly 20 characters when present.
	if len(short) > 20 && short[4] == '/' && short[7] == '/' && short[10] == ' ' && short[13] == ':' {
		short = short[20:]
	}

	msg := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         levelFor(short),
		"_service":      w.service,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil // never fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

// levelFor infers severity from this server's log vocabulary: panics and
// fatals are errors, swallowed index-maintenance failures are warnings.
func levelFor(short string) int {
	switch {
	case strings.Contains(short, "PANIC:") || strings.Contains(short, "Fatal"):
		return levelError
	case strings.HasPrefix(short, "Warning:"):
		return levelWarning
	default:
		return levelInfo
	}
}
