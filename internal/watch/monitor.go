package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jorge-barreto/grav/internal/journal"
)

const debounce = 100 * time.Millisecond

// Monitor watches the monitored directories with fsnotify and emits one
// Record per file once its events settle.
type Monitor struct {
	Events <-chan Record

	d       *Detector
	events  chan Record
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewMonitor creates a monitor for d's directories.
func NewMonitor(d *Detector) (*Monitor, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan Record, 64)
	return &Monitor{
		Events:  ch,
		d:       d,
		events:  ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start adds every non-ignored directory under the monitored dirs and
// begins delivering events.
func (m *Monitor) Start() error {
	for _, dir := range m.d.Dirs {
		base := filepath.Join(m.d.Root, dir)
		if _, err := os.Stat(base); err != nil {
			continue
		}
		if err := m.addTree(base); err != nil {
			m.watcher.Close()
			return err
		}
	}
	go m.loop(m.watcher.Events, m.watcher.Errors)
	return nil
}

// Stop closes the watcher and waits for pending events to flush.
func (m *Monitor) Stop() {
	m.watcher.Close()
	<-m.done
	close(m.events)
}

func (m *Monitor) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
		if err != nil || !e.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(m.d.Root, path); m.d.Ignored(rel) {
			return fs.SkipDir
		}
		return m.watcher.Add(path)
	})
}

type pendingEvent struct {
	at      time.Time
	created bool
}

func (m *Monitor) loop(events <-chan fsnotify.Event, errs <-chan error) {
	defer close(m.done)

	pending := make(map[string]pendingEvent)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				m.flush(pending)
				return
			}
			rel, err := filepath.Rel(m.d.Root, event.Name)
			if err != nil || m.d.Ignored(rel) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					m.addTree(event.Name) //nolint:errcheck // new directory vanished
					continue
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				p := pending[event.Name]
				p.at = time.Now()
				p.created = p.created || event.Has(fsnotify.Create)
				pending[event.Name] = p
			}

		case <-ticker.C:
			now := time.Now()
			for path, p := range pending {
				if now.Sub(p.at) >= debounce {
					m.emit(path, p)
					delete(pending, path)
				}
			}

		case _, ok := <-errs:
			if !ok {
				m.flush(pending)
				return
			}
		}
	}
}

// flush emits every pending event regardless of its debounce age.
func (m *Monitor) flush(pending map[string]pendingEvent) {
	for path, p := range pending {
		m.emit(path, p)
		delete(pending, path)
	}
}

func (m *Monitor) emit(path string, p pendingEvent) {
	rel, _ := filepath.Rel(m.d.Root, path)
	r := Record{Path: filepath.ToSlash(rel), ModifiedAt: p.at}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		r.Type = Deleted
	case info.IsDir():
		return
	case p.created:
		r.Type, r.Size, r.ModifiedAt = Created, info.Size(), info.ModTime()
	default:
		r.Type, r.Size, r.ModifiedAt = Modified, info.Size(), info.ModTime()
	}
	if m.d.Map != nil {
		for i, mt := range m.d.Map.Related(r.Path) {
			if i == maxRelated {
				break
			}
			r.Workstreams = append(r.Workstreams, mt.ID)
		}
	}
	m.events <- r
}

// Recorder stores a batch of changes.
type Recorder interface {
	RecordCheck(ctx context.Context, at time.Time, changes []journal.Change) (string, error)
}

// Collect runs a Monitor until ctx is done, then records what it saw
// through rec when rec is non-nil.
func Collect(ctx context.Context, d *Detector, rec Recorder, onEvent func(Record)) ([]Record, error) {
	m, err := NewMonitor(d)
	if err != nil {
		return nil, err
	}
	if err := m.Start(); err != nil {
		return nil, err
	}

	var out []Record
	stopped := false
	for !stopped {
		select {
		case r := <-m.Events:
			out = append(out, r)
			if onEvent != nil {
				onEvent(r)
			}
		case <-ctx.Done():
			stopped = true
		}
	}
	go m.Stop()
	for r := range m.Events {
		out = append(out, r)
	}

	if rec != nil {
		if _, err := rec.RecordCheck(context.WithoutCancel(ctx), time.Now(), ToJournal(out)); err != nil {
			return out, err
		}
	}
	return out, nil
}

// ToJournal converts records to journal changes.
func ToJournal(recs []Record) []journal.Change {
	out := make([]journal.Change, len(recs))
	for i, r := range recs {
		out[i] = journal.Change{
			Path:        r.Path,
			Type:        r.Type,
			ModifiedAt:  r.ModifiedAt,
			Size:        r.Size,
			Workstreams: r.Workstreams,
		}
	}
	return out
}
