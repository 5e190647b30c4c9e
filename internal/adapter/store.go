package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	m "livesync.dev/pkg/livesync/internal/model"
)

const (
	// ContentFileName holds the properties of a node; a directory without it is not a node.
	ContentFileName = "content.yaml"
	// SyncStateFileName records synchronization metadata of a live-copy node.
	SyncStateFileName = ".livesync.yaml"
	// ManifestFileName lists the live-copy configurations of the store.
	ManifestFileName = "livecopies.yaml"

	filePerm = 0o644
	dirPerm  = 0o755
)

// Manifest is the on-disk list of live-copy configurations.
type Manifest struct {
	LiveCopies []LiveCopyConfig `yaml:"liveCopies"`
}

// LiveCopyConfig declares that Path is a live copy of Blueprint.
// An empty Path describes a relationship whose live copy no longer exists. Blueprint "/"
// makes the whole tree the blueprint. A Path inside its Blueprint is allowed; deep
// synchronization never descends into the live copy itself.
type LiveCopyConfig struct {
	Blueprint  string   `yaml:"blueprint"`
	Path       string   `yaml:"path"`
	Deep       bool     `yaml:"deep"`
	Exclusions []string `yaml:"exclusions,omitempty"`
	Triggers   []string `yaml:"triggers,omitempty"`
}

type syncState struct {
	LastSyncedAt string `yaml:"lastSyncedAt"`
	Master       string `yaml:"master"`
}

// Store is a tree store kept on a billy filesystem. Nodes are directories holding a
// content.yaml file; publishing copies node content into a second filesystem.
// Store implements TreeReader, RelationshipSource, SyncPrimitive, PublishPrimitive
// and LastSyncReader and is safe for concurrent use.
type Store struct {
	fs        billy.Filesystem
	published billy.Filesystem
	mu        sync.RWMutex
	pubMu     sync.Mutex
	now       func() time.Time
	log       *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used to stamp synchronizations.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithStoreLogger sets the logger used by the store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// NewStore creates a Store reading the tree from fs and publishing into published.
func NewStore(fs, published billy.Filesystem, opts ...StoreOption) *Store {
	s := &Store{
		fs:        fs,
		published: published,
		now:       time.Now,
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NodeExists implements TreeReader.
func (s *Store) NodeExists(_ context.Context, nodePath string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nodeExists(nodePath)
}

// GetNode implements TreeReader.
func (s *Store) GetNode(_ context.Context, nodePath string) (*m.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	props, err := s.readContent(s.fs, nodePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error("Failed to read node content", "path", nodePath, "error", err)
		}

		return nil, false
	}

	return &m.Node{Path: nodePath, Properties: props}, true
}

// PutNode creates or replaces the node at nodePath with the given properties.
func (s *Store) PutNode(nodePath string, props map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeContent(s.fs, nodePath, props)
}

// SaveManifest replaces the live-copy manifest.
func (s *Store) SaveManifest(manifest Manifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := util.WriteFile(s.fs, ManifestFileName, data, filePerm); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// OutgoingRelationships implements RelationshipSource. Every live-copy configuration whose
// blueprint is nodePath or one of its ancestors yields one relationship, in manifest order.
func (s *Store) OutgoingRelationships(_ context.Context, nodePath string) ([]m.SyncRelationship, error) {
	s.mu.RLock()
	index, err := s.readManifest()
	s.mu.RUnlock()

	if err != nil {
		return nil, err
	}

	var relationships []m.SyncRelationship

	for _, cfg := range index.LiveCopies {
		if cfg.Blueprint == "" || !m.IsWithin(nodePath, cfg.Blueprint) {
			continue
		}

		syncPath := m.RelativePath(nodePath, cfg.Blueprint)
		relationship := m.SyncRelationship{
			SourcePath: nodePath,
			SyncPath:   syncPath,
		}

		if cfg.Path != "" {
			relationship.TargetPath = strings.TrimSuffix(cfg.Path, m.PathSeparator) + syncPath
			relationship.LiveCopy = cfg.liveCopy()
		}

		relationships = append(relationships, relationship)
	}

	return relationships, nil
}

// PerformSync implements SyncPrimitive. The master content is copied into every target;
// deep synchronization also copies descendants that are not excluded by the live copy.
func (s *Store) PerformSync(ctx context.Context, master *m.Node, targets []string, deep bool) error {
	if master == nil {
		return fmt.Errorf("perform sync: %w", m.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readManifest()
	if err != nil {
		return err
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.syncNode(master.Path, target); err != nil {
			return err
		}

		if !deep {
			continue
		}

		var exclusions map[string]struct{}

		root := target
		if cfg, ok := index.configFor(target); ok {
			exclusions = m.NewExclusions(cfg.Exclusions...)
			root = cfg.Path
		}

		if err := s.syncDescendants(ctx, master.Path, target, root, exclusions); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) syncDescendants(ctx context.Context, masterPath, targetPath, root string, exclusions map[string]struct{}) error {
	children, err := s.childNodes(s.fs, masterPath)
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}

		// A master child inside the live copy is the copy itself or content it already
		// received; descending into it would copy the target into itself forever.
		if m.IsWithin(child, root) || m.IsWithin(child, targetPath) {
			s.log.Warn("Skipping descendant inside the live copy", "master", child, "target", targetPath)
			continue
		}

		name := path.Base(child)
		childTarget := strings.TrimSuffix(targetPath, m.PathSeparator) + m.PathSeparator + name

		if m.IsExcluded(m.RelativePath(childTarget, root), exclusions) {
			s.log.Debug("Skipping excluded descendant", "master", child, "target", childTarget)
			continue
		}

		if err := s.syncNode(child, childTarget); err != nil {
			return err
		}

		if err := s.syncDescendants(ctx, child, childTarget, root, exclusions); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) syncNode(masterPath, targetPath string) error {
	props, err := s.readContent(s.fs, masterPath)
	if err != nil {
		return fmt.Errorf("read master %s: %w", masterPath, err)
	}

	if err := s.writeContent(s.fs, targetPath, props); err != nil {
		return fmt.Errorf("write target %s: %w", targetPath, err)
	}

	state := syncState{
		LastSyncedAt: s.now().UTC().Format(time.RFC3339),
		Master:       masterPath,
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode sync state: %w", err)
	}

	if err := util.WriteFile(s.fs, storePath(targetPath, SyncStateFileName), data, filePerm); err != nil {
		return fmt.Errorf("write sync state %s: %w", targetPath, err)
	}

	return nil
}

// LastSyncedAt implements LastSyncReader.
func (s *Store) LastSyncedAt(_ context.Context, nodePath string) (time.Time, bool) {
	s.mu.RLock()
	data, err := util.ReadFile(s.fs, storePath(nodePath, SyncStateFileName))
	s.mu.RUnlock()

	if err != nil {
		return time.Time{}, false
	}

	var state syncState
	if err := yaml.Unmarshal(data, &state); err != nil {
		s.log.Warn("Failed to decode sync state", "path", nodePath, "error", err)
		return time.Time{}, false
	}

	if state.LastSyncedAt == "" {
		return time.Time{}, false
	}

	syncedAt, err := time.Parse(time.RFC3339, state.LastSyncedAt)
	if err != nil {
		s.log.Warn("Failed to parse last sync time", "path", nodePath, "value", state.LastSyncedAt, "error", err)
		return time.Time{}, false
	}

	return syncedAt, true
}

// Publish implements PublishPrimitive by copying the node content into the published filesystem.
func (s *Store) Publish(ctx context.Context, nodePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	props, err := s.readContent(s.fs, nodePath)
	s.mu.RUnlock()

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("publish %s: %w", nodePath, m.ErrNotFound)
		}

		return fmt.Errorf("publish %s: %w", nodePath, err)
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	if err := s.writeContent(s.published, nodePath, props); err != nil {
		return fmt.Errorf("publish %s: %w: %w", nodePath, m.ErrPublishFailed, err)
	}

	return nil
}

// IsPublished reports whether nodePath has been published.
func (s *Store) IsPublished(nodePath string) bool {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	_, err := s.published.Stat(storePath(nodePath, ContentFileName))

	return err == nil
}

// ListChildren implements PublishPrimitive.
func (s *Store) ListChildren(_ context.Context, nodePath string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.childNodes(s.fs, nodePath)
}

func (s *Store) childNodes(fs billy.Filesystem, nodePath string) ([]string, error) {
	entries, err := fs.ReadDir(storePath(nodePath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("list children of %s: %w", nodePath, err)
	}

	var children []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		child := strings.TrimSuffix(nodePath, m.PathSeparator) + m.PathSeparator + entry.Name()
		if s.nodeExists(child) {
			children = append(children, child)
		}
	}

	sort.Strings(children)

	return children, nil
}

func (s *Store) nodeExists(nodePath string) bool {
	if strings.TrimSpace(nodePath) == "" {
		return false
	}

	_, err := s.fs.Stat(storePath(nodePath, ContentFileName))

	return err == nil
}

func (s *Store) readManifest() (liveCopyIndex, error) {
	data, err := util.ReadFile(s.fs, ManifestFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return liveCopyIndex{}, nil
		}

		return liveCopyIndex{}, fmt.Errorf("read manifest: %w", err)
	}

	var mf Manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return liveCopyIndex{}, fmt.Errorf("decode manifest: %w", err)
	}

	return liveCopyIndex(mf), nil
}

func (s *Store) readContent(fs billy.Filesystem, nodePath string) (map[string]any, error) {
	data, err := util.ReadFile(fs, storePath(nodePath, ContentFileName))
	if err != nil {
		return nil, err
	}

	props := map[string]any{}
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("decode content of %s: %w", nodePath, err)
	}

	return props, nil
}

func (s *Store) writeContent(fs billy.Filesystem, nodePath string, props map[string]any) error {
	if props == nil {
		props = map[string]any{}
	}

	data, err := yaml.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode content of %s: %w", nodePath, err)
	}

	if err := fs.MkdirAll(storePath(nodePath), dirPerm); err != nil {
		return fmt.Errorf("create node %s: %w", nodePath, err)
	}

	return util.WriteFile(fs, storePath(nodePath, ContentFileName), data, filePerm)
}

type liveCopyIndex Manifest

// configFor returns the configuration of the live copy containing target, preferring the
// innermost sync root.
func (mf liveCopyIndex) configFor(target string) (LiveCopyConfig, bool) {
	var (
		found LiveCopyConfig
		ok    bool
	)

	for _, cfg := range mf.LiveCopies {
		if cfg.Path == "" || !m.IsWithin(target, cfg.Path) {
			continue
		}

		if !ok || len(cfg.Path) > len(found.Path) {
			found, ok = cfg, true
		}
	}

	return found, ok
}

func (cfg LiveCopyConfig) liveCopy() *m.LiveCopy {
	triggers := make([]m.Trigger, 0, len(cfg.Triggers))
	for _, trigger := range cfg.Triggers {
		triggers = append(triggers, m.Trigger(strings.ToLower(strings.TrimSpace(trigger))))
	}

	return &m.LiveCopy{
		Path:       cfg.Path,
		Exclusions: m.NewExclusions(cfg.Exclusions...),
		Deep:       cfg.Deep,
		Triggers:   triggers,
	}
}

// storePath maps a tree path onto a filesystem path relative to the store root.
func storePath(nodePath string, elem ...string) string {
	parts := append([]string{strings.TrimPrefix(nodePath, m.PathSeparator)}, elem...)

	joined := path.Join(parts...)
	if joined == "" {
		return "."
	}

	return joined
}
