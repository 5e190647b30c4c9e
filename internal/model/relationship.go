// Package model defines the data structures shared by the live-copy synchronization engine.
package model

// Trigger is a condition that causes a live copy to be synchronized automatically.
type Trigger string

const (
	// TriggerModification synchronizes when the blueprint node is modified.
	TriggerModification Trigger = "modification"
	// TriggerRollout synchronizes when the blueprint is rolled out.
	TriggerRollout Trigger = "rollout"
	// TriggerPublish synchronizes when the blueprint is published.
	TriggerPublish Trigger = "publish"
	// TriggerManual only synchronizes on explicit request.
	TriggerManual Trigger = "manual"
)

// IsAutomatic reports whether the trigger propagates blueprint changes without a manual rollout.
func (t Trigger) IsAutomatic() bool {
	return t == TriggerModification || t == TriggerRollout
}

// LiveCopy is the configuration of a live copy rooted at Path.
type LiveCopy struct {
	// Path is the sync root of the live copy.
	Path string
	// Exclusions holds relative paths (no leading slash) opted out of synchronization.
	Exclusions map[string]struct{}
	// Deep reports whether the configuration applies to descendants of the sync root.
	Deep     bool
	Triggers []Trigger
}

// NewExclusions builds an exclusion set from a list of relative paths.
func NewExclusions(paths ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}

	return set
}

// HasAutoTrigger reports whether any configured trigger is automatic.
func (lc *LiveCopy) HasAutoTrigger() bool {
	if lc == nil {
		return false
	}

	for _, trigger := range lc.Triggers {
		if trigger.IsAutomatic() {
			return true
		}
	}

	return false
}

// SyncRelationship is an edge from a source node to a dependent live-copy node.
type SyncRelationship struct {
	SourcePath string
	// SyncPath is the offset from the sync root; empty when the relationship targets the sync root.
	SyncPath   string
	TargetPath string
	// LiveCopy is nil when the relationship has no linked live copy.
	LiveCopy *LiveCopy
}

// Node is a resolved node of the backing tree.
type Node struct {
	Path       string
	Properties map[string]any
}
