package outline

import (
	"context"
	"log/slog"

	"github.com/chriserin/specoutline/internal/parser"
)

// EventType distinguishes editor notifications.
type EventType int

const (
	// EditorChanged reports a new active document. An empty Path means no
	// document is active.
	EditorChanged EventType = iota
	// DocumentChanged reports new text for an open document.
	DocumentChanged
	// Refresh asks for the current snapshot to be published again.
	Refresh
)

func (t EventType) String() string {
	switch t {
	case EditorChanged:
		return "editor-changed"
	case DocumentChanged:
		return "document-changed"
	case Refresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Event is one notification delivered to the update loop.
type Event struct {
	Type EventType
	Path string
	Text string
}

// Snapshot is the outline state owned by the update loop.
type Snapshot struct {
	File  string
	Roots []*parser.Node
	Err   string
}

// Items returns the tree items of the snapshot.
func (s Snapshot) Items() []TreeItem { return Items(s.Roots) }

// Next computes the snapshot that follows ev. publish is false when the
// event does not concern the current outline.
func Next(s Snapshot, ev Event, isSpec func(path string) bool) (next Snapshot, publish bool) {
	switch ev.Type {
	case Refresh:
		return s, true

	case EditorChanged:
		if ev.Path == "" || !isSpec(ev.Path) {
			return Snapshot{}, true
		}
		return parse(ev.Path, ev.Text), true

	case DocumentChanged:
		if s.File == "" || ev.Path != s.File {
			return s, false
		}
		return parse(ev.Path, ev.Text), true
	}
	return s, false
}

func parse(path, text string) Snapshot {
	res := parser.Parse(path, []byte(text))
	if !res.OK() {
		return Snapshot{File: path, Roots: []*parser.Node{}, Err: res.Err.Message}
	}
	return Snapshot{File: path, Roots: res.Nodes}
}

// Updater runs the single-threaded update loop that owns the outline.
type Updater struct {
	IsSpec func(path string) bool
	Logger *slog.Logger
}

// Run consumes events until ctx is done or events is closed, calling
// publish for every snapshot that changed the outline.
func (u *Updater) Run(ctx context.Context, events <-chan Event, publish func(Snapshot)) error {
	logger := u.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var current Snapshot
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			next, changed := Next(current, ev, u.IsSpec)
			if !changed {
				logger.Debug("event ignored", "type", ev.Type, "path", ev.Path)
				continue
			}
			current = next
			if current.Err != "" {
				logger.Error("parsing failed", "path", current.File, "error", current.Err)
			} else {
				logger.Debug("outline updated", "type", ev.Type, "path", current.File, "roots", len(current.Roots))
			}
			publish(current)
		}
	}
}
