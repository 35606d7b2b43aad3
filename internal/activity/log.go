package activity

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msalah0e/strainscope/internal/config"
)

// Entry represents a single activity log entry.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session,omitempty"`
	Action    string    `json:"action"`
	Strain    string    `json:"strain,omitempty"`
	Query     string    `json:"query,omitempty"`
	Year      int       `json:"year,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Path returns the activity log location.
func Path() string {
	return filepath.Join(config.StateDir(), "activity.jsonl")
}

// Session stamps every entry it writes with one id, so the entries of a
// single explorer run can be told apart.
type Session struct {
	ID string
}

// NewSession starts a session with a fresh id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Log appends an entry for this session.
func (s *Session) Log(action, strain, query string, year int) error {
	return Append(Entry{
		Session: s.ID,
		Action:  action,
		Strain:  strain,
		Query:   query,
		Year:    year,
	})
}

// Log appends a session-less entry.
func Log(action, details string) error {
	return Append(Entry{Action: action, Details: details})
}

// Append writes e to the log, stamping the time if it is unset.
func Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "%s\n", data)
	return err
}

// Read returns the last N entries from the log, newest first. Lines that
// fail to parse are skipped.
func Read(count int) ([]Entry, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var e Entry
		if json.Unmarshal(line, &e) == nil {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if count > 0 && len(entries) > count {
		entries = entries[:count]
	}
	return entries, nil
}

// Search finds entries whose action, strain, query or details contain
// query, case-insensitively.
func Search(query string, count int) ([]Entry, error) {
	all, err := Read(0)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var results []Entry
	for _, e := range all {
		if contains(e.Action, q) || contains(e.Strain, q) || contains(e.Query, q) || contains(e.Details, q) {
			results = append(results, e)
			if count > 0 && len(results) >= count {
				break
			}
		}
	}
	return results, nil
}

// Clear removes all log entries.
func Clear() error {
	err := os.Remove(Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func contains(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}
