package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Journal persists session logs as one JSONL file per session under a
// data directory, so a daemon restart does not lose recorded events.
// The first line of a file is the session record; every following line
// is one event.
type Journal struct {
	dir string
}

// record is a single JSONL line. Exactly one field is set.
type record struct {
	Session *State `json:"session,omitempty"`
	Event   *Event `json:"event,omitempty"`
}

func NewJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &Journal{dir: dir}, nil
}

func (j *Journal) path(sessionID string) string {
	return filepath.Join(j.dir, sessionID+".jsonl")
}

// WriteSession starts a session's journal file with its state record.
func (j *Journal) WriteSession(st *State) error {
	return j.appendLine(st.ID, record{Session: st})
}

// WriteEvent appends one event record to the session's journal file.
func (j *Journal) WriteEvent(sessionID string, ev Event) error {
	return j.appendLine(sessionID, record{Event: &ev})
}

func (j *Journal) appendLine(sessionID string, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(j.path(sessionID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", sessionID, err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write journal %s: %w", sessionID, err)
	}
	return nil
}

// Replay loads every journal file in the directory into the store.
// Malformed lines are logged and skipped; a journal whose header line
// is missing is skipped entirely.
func (j *Journal) Replay(store *Store) error {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return fmt.Errorf("read journal dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		if err := j.replayFile(store, filepath.Join(j.dir, entry.Name())); err != nil {
			log.Printf("journal: replay %s: %v", entry.Name(), err)
		}
	}
	return nil
}

func (j *Journal) replayFile(store *Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var sessionID string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("journal: skipping malformed line in %s: %v", filepath.Base(path), err)
			continue
		}
		switch {
		case rec.Session != nil:
			store.Restore(rec.Session)
			sessionID = rec.Session.ID
		case rec.Event != nil:
			if sessionID == "" {
				return fmt.Errorf("event before session record")
			}
			if err := store.Append(sessionID, *rec.Event); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
