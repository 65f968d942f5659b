package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type ChangeKind uint8

const (
	ChangeSpec ChangeKind = iota + 1
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSpec:
		return "spec"
	case ChangeScript:
		return "script"
	default:
		return "unknown"
	}
}

// Change is a debounced notification that a prefab file was touched. It is
// sent once the file has been quiet for the debounce window, so it always
// follows the last write of a burst.
type Change struct {
	Path string
	Name string
	Kind ChangeKind
}

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	quiet   time.Duration
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

var debounce = 100 * time.Millisecond

type pendingChange struct {
	change Change
	due    time.Time
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		quiet:   debounce,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]pendingChange)
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind := classify(event.Name)
			if kind == 0 {
				continue
			}
			pending[event.Name] = pendingChange{
				change: Change{Path: event.Name, Name: filepath.Base(event.Name), Kind: kind},
				due:    time.Now().Add(w.quiet),
			}
			next, _ := earliest(pending)
			timer.Reset(time.Until(next))
		case <-timer.C:
			if !w.flushDue(pending, time.Now()) {
				return
			}
			if next, ok := earliest(pending); ok {
				timer.Reset(time.Until(next))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// flushDue sends every pending change whose quiet window has passed, in path
// order. It returns false if the watcher closed while sending.
func (w *Watcher) flushDue(pending map[string]pendingChange, now time.Time) bool {
	paths := make([]string, 0, len(pending))
	for path, p := range pending {
		if !now.Before(p.due) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	for _, path := range paths {
		change := pending[path].change
		delete(pending, path)
		select {
		case w.Events <- change:
		case <-w.closeCh:
			return false
		}
	}
	return true
}

func earliest(pending map[string]pendingChange) (time.Time, bool) {
	var next time.Time
	for _, p := range pending {
		if next.IsZero() || p.due.Before(next) {
			next = p.due
		}
	}
	return next, !next.IsZero()
}

func classify(path string) ChangeKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec
	case ".tengo":
		return ChangeScript
	default:
		return 0
	}
}
