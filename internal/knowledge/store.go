// Package knowledge implements the append-only (question, answer) fact
// store: a plain Markdown file with a fixed header, one fact per line.
// No database — deliberately a flat file (see DESIGN.md).
package knowledge

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

const header = "# Nightwatch Knowledge"

// Store is a single-writer append-only fact store backed by a file on disk.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open returns a Store bound to path. The file need not exist yet; it is
// created on first Append. A missing or header-only file reads as empty.
func Open(path string) *Store {
	return &Store{path: path}
}

// Facts returns every fact as Markdown lines ("- question → answer"),
// suitable for folding directly into a reasoner prompt.
func (s *Store) Facts() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == header {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// Append records a new (question, answer) fact, creating the file with
// its fixed header if it doesn't already exist.
func (s *Store) Append(question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	needsHeader := false
	if info, err := os.Stat(s.path); os.IsNotExist(err) {
		needsHeader = true
	} else if err != nil {
		return err
	} else if info.Size() == 0 {
		needsHeader = true
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if needsHeader {
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if _, err := fmt.Fprintf(w, "- %s → %s\n", question, answer); err != nil {
		return err
	}
	return w.Flush()
}
