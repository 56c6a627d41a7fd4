package backup

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chroncli/internal/storage"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2024, time.February, 14, 9, 30, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// newTestManager returns a manager over a temp data dir and the tasks path.
func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	tasksPath := filepath.Join(dir, "tasks.json")
	m := NewManager(tasksPath, filepath.Join(dir, "backups"), "1.0.0-test")
	m.SetNowFunc(tickingClock())
	return m, tasksPath
}

// writeTasks replaces the tasks file with names, the first done of them
// completed.
func writeTasks(t *testing.T, path string, done int, names ...string) {
	t.Helper()
	s := storage.New(path)
	base := time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local)
	for i, n := range names {
		if err := s.Add(storage.Task{Name: n, Start: base.Add(time.Duration(i) * time.Hour), Completed: i < done}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
}

func taskNames(t *testing.T, path string) []string {
	t.Helper()
	tasks, err := storage.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Name
	}
	return names
}

func TestManager_Create(t *testing.T) {
	m, tasksPath := newTestManager(t)
	writeTasks(t, tasksPath, 1, "a", "b", "c")

	name, err := m.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if name != "2024-02-14_093001_000" {
		t.Errorf("name = %q", name)
	}

	backupPath := filepath.Join(m.backupDir, name)
	if got := taskNames(t, filepath.Join(backupPath, "tasks.json")); len(got) != 3 {
		t.Errorf("backup holds %v", got)
	}

	data, err := os.ReadFile(filepath.Join(backupPath, ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.Version != ManifestVersion || manifest.AppVersion != "1.0.0-test" {
		t.Errorf("manifest = %+v", manifest)
	}
	if manifest.Tasks != 3 || manifest.Completed != 1 || manifest.File != "tasks.json" {
		t.Errorf("manifest counts = %+v", manifest)
	}
}

func TestManager_CreateSameInstant(t *testing.T) {
	m, tasksPath := newTestManager(t)
	writeTasks(t, tasksPath, 0, "a")
	fixed := time.Date(2024, time.February, 14, 9, 30, 0, 5*int(time.Millisecond), time.Local)
	m.SetNowFunc(func() time.Time { return fixed })

	first, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	if first != "2024-02-14_093000_005" || second != "2024-02-14_093000_006" {
		t.Errorf("names = %q, %q", first, second)
	}
}

func TestManager_CreateWithoutTasksFile(t *testing.T) {
	m, _ := newTestManager(t)

	name, err := m.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	info, err := m.Get(name)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !info.Empty || info.Tasks != 0 {
		t.Errorf("info = %+v, want empty", info)
	}
}

func TestManager_CreateCopiesCorruptFile(t *testing.T) {
	m, tasksPath := newTestManager(t)
	if err := os.WriteFile(tasksPath, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	name, err := m.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(m.backupDir, name, "tasks.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{broken" {
		t.Errorf("backup content = %q", data)
	}
}

func TestManager_List(t *testing.T) {
	m, tasksPath := newTestManager(t)
	writeTasks(t, tasksPath, 0, "a")

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("List() = %d backups, want 0", len(backups))
	}

	name1, _ := m.Create()
	name2, _ := m.Create()
	if err := os.MkdirAll(filepath.Join(m.backupDir, "not-a-backup"), 0700); err != nil {
		t.Fatal(err)
	}

	backups, err = m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("List() = %d backups, want 2", len(backups))
	}
	if backups[0].Name != name2 || backups[1].Name != name1 {
		t.Errorf("order = %s, %s; want newest first", backups[0].Name, backups[1].Name)
	}
	if backups[0].Tasks != 1 {
		t.Errorf("Tasks = %d, want 1", backups[0].Tasks)
	}
}

func TestManager_ListWithoutManifest(t *testing.T) {
	m, tasksPath := newTestManager(t)
	writeTasks(t, tasksPath, 0, "a", "b")
	name, _ := m.Create()
	if err := os.Remove(filepath.Join(m.backupDir, name, ManifestFile)); err != nil {
		t.Fatal(err)
	}

	info, err := m.Get(name)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if info.Tasks != 2 || info.Empty {
		t.Errorf("info = %+v, want 2 tasks recounted", info)
	}
	want := time.Date(2024, time.February, 14, 9, 30, 1, 0, time.Local)
	if !info.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v from the name", info.CreatedAt, want)
	}
}

func TestManager_Restore(t *testing.T) {
	m, tasksPath := newTestManager(t)
	writeTasks(t, tasksPath, 0, "a", "b")

	name, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(tasksPath); err != nil {
		t.Fatal(err)
	}
	writeTasks(t, tasksPath, 0, "replaced")

	safety, err := m.Restore(name)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := taskNames(t, tasksPath); len(got) != 2 || got[0] != "a" {
		t.Errorf("restored tasks = %v", got)
	}
	if got := taskNames(t, filepath.Join(m.backupDir, safety, "tasks.json")); len(got) != 1 || got[0] != "replaced" {
		t.Errorf("safety backup holds %v", got)
	}
}

func TestManager_RestoreEmptyBackup(t *testing.T) {
	m, tasksPath := newTestManager(t)
	name, _ := m.Create()
	writeTasks(t, tasksPath, 0, "later")

	if _, err := m.Restore(name); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := taskNames(t, tasksPath); len(got) != 0 {
		t.Errorf("restored tasks = %v, want none", got)
	}
}

func TestManager_RestoreRejectsCorruptBackup(t *testing.T) {
	m, tasksPath := newTestManager(t)
	if err := os.WriteFile(tasksPath, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	name, _ := m.Create()
	if err := os.Remove(tasksPath); err != nil {
		t.Fatal(err)
	}
	writeTasks(t, tasksPath, 0, "keep")

	_, err := m.Restore(name)
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("Restore() error = %v, want ErrCorrupt", err)
	}
	if got := taskNames(t, tasksPath); len(got) != 1 || got[0] != "keep" {
		t.Errorf("tasks file changed to %v", got)
	}
	backups, _ := m.List()
	if len(backups) != 1 {
		t.Errorf("failed restore should not leave a safety backup, have %d", len(backups))
	}
}

func TestManager_RestoreLatest(t *testing.T) {
	m, tasksPath := newTestManager(t)

	if _, _, err := m.RestoreLatest(); !errors.Is(err, ErrNoBackups) {
		t.Fatalf("RestoreLatest() error = %v, want ErrNoBackups", err)
	}

	writeTasks(t, tasksPath, 0, "first")
	if _, err := m.Create(); err != nil {
		t.Fatal(err)
	}
	writeTasks(t, tasksPath, 0, "second")
	latest, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	writeTasks(t, tasksPath, 0, "third")

	restored, _, err := m.RestoreLatest()
	if err != nil {
		t.Fatalf("RestoreLatest() error = %v", err)
	}
	if restored != latest {
		t.Errorf("restored %s, want %s", restored, latest)
	}
	if got := taskNames(t, tasksPath); len(got) != 1 || got[0] != "second" {
		t.Errorf("restored tasks = %v, want [second]", got)
	}
}

func TestManager_InvalidNames(t *testing.T) {
	m, _ := newTestManager(t)
	for _, name := range []string{"", "../etc", "a/b", "nonexistent-backup", "2024-02-14_093000_abc"} {
		if _, err := m.Restore(name); err == nil {
			t.Errorf("Restore(%q) should fail", name)
		}
		if err := m.Delete(name); err == nil {
			t.Errorf("Delete(%q) should fail", name)
		}
	}
	if _, err := m.Restore("2024-02-14_093000_000"); err == nil {
		t.Error("Restore of a missing backup should fail")
	}
}

func TestManager_Prune(t *testing.T) {
	m, tasksPath := newTestManager(t)
	writeTasks(t, tasksPath, 0, "a")

	var names []string
	for i := 0; i < 5; i++ {
		name, err := m.Create()
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}

	deleted, err := m.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	backups, _ := m.List()
	if len(backups) != 2 || backups[0].Name != names[4] || backups[1].Name != names[3] {
		t.Errorf("remaining = %+v, want the two newest", backups)
	}

	if _, err := m.Prune(-1); err == nil {
		t.Error("Prune(-1) should fail")
	}
}
