package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	m "livesync.dev/pkg/livesync/internal/model"
)

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTree is an in-memory tree implementing every adapter capability. It records the order
// in which synchronization and publish calls start and end.
type memTree struct {
	mu sync.Mutex

	nodes         map[string]bool
	relationships map[string][]m.SyncRelationship
	lookupErr     map[string]error
	syncErr       map[string]error
	publishErr    map[string]error
	children      map[string][]string
	childrenErr   map[string]error
	lastSync      map[string]time.Time
	delay         time.Duration

	events    []string
	synced    []string
	published []string
	active    int
	maxActive int
}

func newMemTree(paths ...string) *memTree {
	tree := &memTree{
		nodes:         map[string]bool{},
		relationships: map[string][]m.SyncRelationship{},
		lookupErr:     map[string]error{},
		syncErr:       map[string]error{},
		publishErr:    map[string]error{},
		children:      map[string][]string{},
		childrenErr:   map[string]error{},
		lastSync:      map[string]time.Time{},
	}

	for _, p := range paths {
		tree.nodes[p] = true
	}

	return tree
}

// link declares that source has a live copy rooted at liveCopy.Path.
func (t *memTree) link(source, syncPath, targetPath string, liveCopy *m.LiveCopy) {
	t.relationships[source] = append(t.relationships[source], m.SyncRelationship{
		SourcePath: source,
		SyncPath:   syncPath,
		TargetPath: targetPath,
		LiveCopy:   liveCopy,
	})
}

func (t *memTree) NodeExists(_ context.Context, path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.nodes[path]
}

func (t *memTree) GetNode(_ context.Context, path string) (*m.Node, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.nodes[path] {
		return nil, false
	}

	return &m.Node{Path: path}, true
}

func (t *memTree) OutgoingRelationships(_ context.Context, path string) ([]m.SyncRelationship, error) {
	if err := t.lookupErr[path]; err != nil {
		return nil, err
	}

	return t.relationships[path], nil
}

func (t *memTree) PerformSync(ctx context.Context, master *m.Node, targets []string, _ bool) error {
	for _, target := range targets {
		if err := t.track(ctx, target, t.syncErr[target]); err != nil {
			return err
		}

		t.mu.Lock()
		t.synced = append(t.synced, target)
		t.nodes[target] = true
		t.mu.Unlock()
	}

	return nil
}

func (t *memTree) Publish(ctx context.Context, path string) error {
	if err := t.track(ctx, path, t.publishErr[path]); err != nil {
		return err
	}

	t.mu.Lock()
	t.published = append(t.published, path)
	t.mu.Unlock()

	return nil
}

func (t *memTree) ListChildren(_ context.Context, path string) ([]string, error) {
	if err := t.childrenErr[path]; err != nil {
		return nil, err
	}

	return t.children[path], nil
}

func (t *memTree) LastSyncedAt(_ context.Context, path string) (time.Time, bool) {
	at, ok := t.lastSync[path]
	return at, ok
}

func (t *memTree) track(ctx context.Context, target string, err error) error {
	t.mu.Lock()
	t.events = append(t.events, "start:"+target)
	t.active++
	t.maxActive = max(t.maxActive, t.active)
	t.mu.Unlock()

	if t.delay > 0 {
		select {
		case <-time.After(t.delay):
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	t.mu.Lock()
	t.events = append(t.events, "end:"+target)
	t.active--
	t.mu.Unlock()

	return err
}

func (t *memTree) eventIndex(event string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, e := range t.events {
		if e == event {
			return i
		}
	}

	return -1
}
