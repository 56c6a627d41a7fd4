package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"chroncli/internal/storage"
)

// TaskwarriorImporter handles importing from Taskwarrior JSON exports.
type TaskwarriorImporter struct{}

// taskwarriorTask represents a task in Taskwarrior's JSON format.
type taskwarriorTask struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Due         string `json:"due"`
	Scheduled   string `json:"scheduled"`
	UUID        string `json:"uuid"`
}

// Name returns the importer name.
func (t *TaskwarriorImporter) Name() string {
	return "taskwarrior"
}

// Preview parses a Taskwarrior export. The scheduled date, or failing that
// the due date, becomes the start; deleted and undated tasks are skipped.
func (t *TaskwarriorImporter) Preview(reader io.Reader) (*Preview, error) {
	return t.parseTasks(reader)
}

// parseTasks reads and parses Taskwarrior JSON format.
// Supports both JSON array format and newline-delimited JSON (NDJSON).
func (t *TaskwarriorImporter) parseTasks(reader io.Reader) (*Preview, error) {
	br := bufio.NewReader(reader)
	prefix, first, err := readFirstNonSpaceByte(br)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	r := io.MultiReader(bytes.NewReader(prefix), br)
	if first == '[' {
		return parseTaskwarriorJSONArray(r)
	}
	return parseTaskwarriorNDJSON(r)
}

const maxTaskwarriorNDJSONLineBytes = 4 << 20 // 4MiB

func readFirstNonSpaceByte(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(prefix) == 0 {
				return nil, 0, io.EOF
			}
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		if !isSpaceByte(b) {
			return prefix, b, nil
		}
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func parseTaskwarriorJSONArray(r io.Reader) (*Preview, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("failed to parse JSON array: expected '['")
	}

	p := &Preview{}
	var idx int
	for dec.More() {
		idx++
		var tw taskwarriorTask
		if err := dec.Decode(&tw); err != nil {
			return nil, fmt.Errorf("failed to decode task %d: %w", idx, err)
		}
		p.add(tw)
	}

	// Consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	return p, nil
}

func parseTaskwarriorNDJSON(r io.Reader) (*Preview, error) {
	br := bufio.NewReader(r)
	p := &Preview{}
	var lineNo int
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > maxTaskwarriorNDJSONLineBytes {
			return nil, fmt.Errorf("taskwarrior NDJSON line %d exceeds %d bytes", lineNo+1, maxTaskwarriorNDJSONLineBytes)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read NDJSON: %w", err)
		}
		if len(line) == 0 && err == io.EOF {
			break
		}

		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				break
			}
			continue
		}

		var tw taskwarriorTask
		if uerr := json.Unmarshal(line, &tw); uerr != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, uerr)
		}
		p.add(tw)

		if err == io.EOF {
			break
		}
	}

	if lineNo == 0 {
		return nil, fmt.Errorf("empty input")
	}

	return p, nil
}

// add converts one Taskwarrior entry, recording why it was skipped if it
// cannot become a task.
func (p *Preview) add(tw taskwarriorTask) {
	name := strings.TrimSpace(tw.Description)
	switch {
	case tw.Status == "deleted":
		p.skip("%s: deleted", describe(tw))
		return
	case name == "":
		p.skip("%s: no description", describe(tw))
		return
	}

	when := tw.Scheduled
	if when == "" {
		when = tw.Due
	}
	start := parseTaskwarriorDate(when)
	if start == nil {
		p.skip("%s: no scheduled or due date", name)
		return
	}

	p.Tasks = append(p.Tasks, storage.Task{
		Name:      name,
		Start:     *start,
		Completed: tw.Status == "completed",
	})
}

func describe(tw taskwarriorTask) string {
	if d := strings.TrimSpace(tw.Description); d != "" {
		return d
	}
	if tw.UUID != "" {
		return tw.UUID
	}
	return "task"
}

// parseTaskwarriorDate reads Taskwarrior's ISO 8601 basic form
// (20140928T211124Z) and a few extended forms. Values ending in Z are UTC,
// the rest are local. The result is in local time, or nil if unparseable.
func parseTaskwarriorDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	layouts := []string{"20060102T150405", "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}
	loc := time.Local
	if strings.HasSuffix(s, "Z") {
		s, loc = strings.TrimSuffix(s, "Z"), time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			t = t.In(time.Local)
			return &t
		}
	}
	return nil
}
