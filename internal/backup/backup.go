// Package backup keeps timestamped copies of the tasks file and restores
// them. Each backup is a directory under <data_dir>/backups holding a copy of
// tasks.json and a manifest.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"chroncli/internal/fsutil"
	"chroncli/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	nameLayout      = "2006-01-02_150405"
)

// ErrNoBackups is returned by RestoreLatest when nothing has been backed up.
var ErrNoBackups = errors.New("no backups available")

// Manager handles backup and restore operations for one tasks file.
type Manager struct {
	tasksPath  string // e.g. ~/.chroncli/tasks.json
	backupDir  string // e.g. ~/.chroncli/backups
	appVersion string
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	File       string    `json:"file,omitempty"`
	Tasks      int       `json:"tasks"`
	Completed  int       `json:"completed"`
}

// Info contains summary information about a backup.
type Info struct {
	Name      string // directory name, e.g. 2024-02-14_093000_000
	Path      string
	CreatedAt time.Time
	Tasks     int
	Completed int
	Empty     bool // no tasks file existed when the backup was taken
}

// NewManager creates a backup manager for tasksPath storing into backupDir.
func NewManager(tasksPath, backupDir, appVersion string) *Manager {
	return &Manager{
		tasksPath:  tasksPath,
		backupDir:  backupDir,
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// Create copies the tasks file into a new backup and returns its name.
// A missing tasks file still produces a backup that records an empty store.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, fsutil.DirPerm); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	now := m.now()
	name, err := m.reserveName(now)
	if err != nil {
		return "", err
	}
	backupPath := filepath.Join(m.backupDir, name)

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
	}

	// An undecodable file is still copied as is; only the counts are lost.
	tasks, err := storage.ReadFile(m.tasksPath)
	if !errors.Is(err, os.ErrNotExist) {
		file := filepath.Base(m.tasksPath)
		if err := fsutil.CopyFile(m.tasksPath, filepath.Join(backupPath, file), 0600); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("copy %s: %w", file, err)
		}
		manifest.File = file
		manifest.Tasks = len(tasks)
		for _, t := range tasks {
			if t.Completed {
				manifest.Completed++
			}
		}
	}

	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return name, nil
}

// reserveName creates the backup directory, bumping the millisecond suffix
// when two backups land in the same millisecond.
func (m *Manager) reserveName(now time.Time) (string, error) {
	base := now.Format(nameLayout)
	ms := now.Nanosecond() / int(time.Millisecond)
	for i := 0; i < 1000; i++ {
		name := fmt.Sprintf("%s_%03d", base, (ms+i)%1000)
		err := os.Mkdir(filepath.Join(m.backupDir, name), fsutil.DirPerm)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create backup: %w", err)
		}
	}
	return "", fmt.Errorf("create backup: too many backups at %s", base)
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].CreatedAt.After(backups[j].CreatedAt)
		}
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// Get returns information about a specific backup.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); err != nil {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*Info, error) {
	createdAt, err := parseName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid backup: %s", name)
	}
	path := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err == nil {
		createdAt = manifest.CreatedAt
	} else if tasks, err := storage.ReadFile(filepath.Join(path, filepath.Base(m.tasksPath))); err == nil {
		// Manifest lost; recount from the copy itself.
		manifest.File = filepath.Base(m.tasksPath)
		manifest.Tasks = len(tasks)
	}

	return &Info{
		Name:      name,
		Path:      path,
		CreatedAt: createdAt,
		Tasks:     manifest.Tasks,
		Completed: manifest.Completed,
		Empty:     manifest.File == "",
	}, nil
}

// Restore replaces the tasks file with the copy in backup name. The copy is
// validated first, and the current file is backed up before it is replaced.
// It returns the name of that safety backup.
func (m *Manager) Restore(name string) (string, error) {
	info, err := m.Get(name)
	if err != nil {
		return "", err
	}

	src := filepath.Join(info.Path, filepath.Base(m.tasksPath))
	var data []byte
	if !info.Empty {
		if _, err := storage.ReadFile(src); err != nil {
			return "", fmt.Errorf("backup %s is invalid: %w", name, err)
		}
		if data, err = os.ReadFile(src); err != nil {
			return "", fmt.Errorf("read backup %s: %w", name, err)
		}
	} else {
		data = []byte("[]")
	}

	safety, err := m.Create()
	if err != nil {
		return "", fmt.Errorf("create safety backup: %w", err)
	}
	if err := fsutil.WriteFileAtomic(m.tasksPath, data, 0600); err != nil {
		return safety, fmt.Errorf("restore %s (safety backup: %s): %w", name, safety, err)
	}
	return safety, nil
}

// RestoreLatest restores from the most recent backup and returns its name
// together with the safety backup's.
func (m *Manager) RestoreLatest() (restored, safety string, err error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}
	if len(backups) == 0 {
		return "", "", ErrNoBackups
	}
	restored = backups[0].Name
	safety, err = m.Restore(restored)
	return restored, safety, err
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(path)
}

// Prune removes old backups, keeping only the keep most recent.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// parseName reads the timestamp in a backup name. Both the bare
// 2006-01-02_150405 form and the one with a _000 millisecond suffix parse.
func parseName(name string) (time.Time, error) {
	if len(name) != len(nameLayout)+4 {
		return time.ParseInLocation(nameLayout, name, time.Local)
	}
	base, err := time.ParseInLocation(nameLayout, name[:len(nameLayout)], time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if name[len(nameLayout)] != '_' {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	ms, err := strconv.Atoi(name[len(nameLayout)+1:])
	if err != nil || ms < 0 {
		return time.Time{}, fmt.Errorf("invalid milliseconds")
	}
	return base.Add(time.Duration(ms) * time.Millisecond), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
