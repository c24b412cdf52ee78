// Package archive moves finished or superseded artifacts under .archive/
// with a JSON metadata sidecar, and snapshots the state documents.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jorge-barreto/grav/internal/state"
)

// Archive categories.
const (
	Completed  = "completed"
	Deprecated = "deprecated"
	Snapshots  = "snapshots"
	All        = "all"
)

const metaSuffix = ".meta.json"

// ErrNoMetadata is returned by Restore when an item has no sidecar.
var ErrNoMetadata = errors.New("no archive metadata")

// Meta is the sidecar written next to every archived item.
type Meta struct {
	ID           string `json:"id"`
	OriginalPath string `json:"original_path"`
	ArchiveDate  string `json:"archive_date"`
	Reason       string `json:"reason"`
	ArchivedBy   string `json:"archived_by"`
	Replacement  string `json:"replacement,omitempty"`
}

// Item is one entry returned by List.
type Item struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Path     string `json:"path"`
	Meta     *Meta  `json:"meta,omitempty"`
	MetaErr  string `json:"meta_error,omitempty"`
}

// Manager operates on the archive of one project.
type Manager struct {
	Root       string
	Dir        string
	Snapshot   []string
	ArchivedBy string
	Now        func() time.Time
}

// New returns a Manager archiving under dir and snapshotting files.
func New(root, dir string, files ...string) *Manager {
	return &Manager{Root: root, Dir: dir, Snapshot: files, ArchivedBy: "grav", Now: time.Now}
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Manager) category(name string) string {
	return filepath.Join(m.Dir, name)
}

// EnsureLayout creates the category directories.
func (m *Manager) EnsureLayout() error {
	for _, c := range []string{Completed, Deprecated, Snapshots} {
		if err := os.MkdirAll(m.category(c), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", m.category(c), err)
		}
	}
	return nil
}

func (m *Manager) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// Complete moves path into completed/ and records why.
func (m *Manager) Complete(path, reason string) (string, error) {
	return m.move(path, Completed, reason, "")
}

// Deprecate moves path into deprecated/, naming its replacement.
func (m *Manager) Deprecate(path, reason, replacement string) (string, error) {
	if reason == "" {
		reason = "Deprecated"
	}
	return m.move(path, Deprecated, reason, replacement)
}

func (m *Manager) move(path, cat, reason, replacement string) (string, error) {
	src := m.resolve(path)
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("source path %s does not exist", path)
	}
	if err := m.EnsureLayout(); err != nil {
		return "", err
	}
	target := filepath.Join(m.category(cat), filepath.Base(src))
	if _, err := os.Lstat(target); err == nil {
		target += "_" + m.now().Format("20060102_150405")
	}
	if err := os.Rename(src, target); err != nil {
		return "", fmt.Errorf("moving %s: %w", path, err)
	}

	meta := Meta{
		ID:           uuid.NewString(),
		OriginalPath: state.Rel(m.Root, src),
		ArchiveDate:  m.now().Format(time.RFC3339),
		Reason:       reason,
		ArchivedBy:   m.ArchivedBy,
		Replacement:  replacement,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := state.WriteFileAtomic(target+metaSuffix, data, 0644); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}
	return state.Rel(m.Root, target), nil
}

// TakeSnapshot copies the snapshot files that exist into
// snapshots/<label>_<timestamp>/.
func (m *Manager) TakeSnapshot(label string) (string, []string, error) {
	if strings.ContainsAny(label, `/\`) || strings.TrimSpace(label) == "" {
		return "", nil, fmt.Errorf("invalid snapshot label %q", label)
	}
	dir := filepath.Join(m.category(Snapshots), label+"_"+m.now().Format("20060102_150405"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("creating snapshot: %w", err)
	}
	var copied []string
	for _, f := range m.Snapshot {
		src := m.resolve(f)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return "", copied, fmt.Errorf("copying %s: %w", f, err)
		}
		copied = append(copied, filepath.Base(src))
	}
	return state.Rel(m.Root, dir), copied, nil
}

// List returns archived items in cat, or every category for All.
func (m *Manager) List(cat string) ([]Item, error) {
	var cats []string
	switch cat {
	case All, "":
		cats = []string{Completed, Deprecated, Snapshots}
	case Completed, Deprecated, Snapshots:
		cats = []string{cat}
	default:
		return nil, fmt.Errorf("invalid category: %s", cat)
	}

	var items []Item
	for _, c := range cats {
		entries, err := os.ReadDir(m.category(c))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if name == ".keep" || strings.HasSuffix(name, metaSuffix) {
				continue
			}
			full := filepath.Join(m.category(c), name)
			it := Item{Name: name, Category: c, Path: state.Rel(m.Root, full)}
			if meta, err := readMeta(full); err == nil {
				it.Meta = meta
			} else if !errors.Is(err, ErrNoMetadata) {
				it.MetaErr = "Failed to read metadata"
			}
			items = append(items, it)
		}
	}
	return items, nil
}

// Restore moves an archived item back to its original path and removes the
// sidecar. It refuses to overwrite an existing file.
func (m *Manager) Restore(archived string) (string, error) {
	src := m.resolve(archived)
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("archived item %s does not exist", archived)
	}
	meta, err := readMeta(src)
	if err != nil {
		return "", fmt.Errorf("restoring %s: %w", archived, err)
	}
	dest := m.resolve(meta.OriginalPath)
	if _, err := os.Lstat(dest); err == nil {
		return "", fmt.Errorf("original path %s already exists", meta.OriginalPath)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}
	if err := os.Rename(src, dest); err != nil {
		return "", fmt.Errorf("restoring %s: %w", archived, err)
	}
	if err := os.Remove(src + metaSuffix); err != nil {
		return "", fmt.Errorf("removing metadata: %w", err)
	}
	return meta.OriginalPath, nil
}

func readMeta(item string) (*Meta, error) {
	data, err := os.ReadFile(item + metaSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoMetadata
		}
		return nil, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return &meta, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
