package model

import "time"

// RolloutItem is a flattened selection entry handed to the orchestrator.
type RolloutItem struct {
	Master             string `json:"master"`
	Target             string `json:"target"`
	Depth              int    `json:"depth"`
	AutoRolloutTrigger bool   `json:"autoRolloutTrigger"`
}

// SyncStatus is the outcome of synchronizing or publishing a single target.
type SyncStatus struct {
	Target  string `json:"target"`
	Success bool   `json:"success"`
	// Partial is set by deep publishing when the root succeeded but a descendant failed.
	Partial           bool     `json:"partial,omitempty"`
	FailedDescendants []string `json:"failedDescendants,omitempty"`
	Err               string   `json:"error,omitempty"`
}

// LiveCopyNode is a node of the eligible live-copy tree.
type LiveCopyNode struct {
	Master             string         `json:"master"`
	Path               string         `json:"path"`
	Depth              int            `json:"depth"`
	LiveCopies         []LiveCopyNode `json:"liveCopies"`
	IsNew              bool           `json:"isNew"`
	AutoRolloutTrigger bool           `json:"autoRolloutTrigger"`
	LastSyncedAt       *time.Time     `json:"lastRolledout,omitempty"`
}

// Flatten turns a live-copy tree into rollout items, parents before their children.
func Flatten(nodes []LiveCopyNode) []RolloutItem {
	var items []RolloutItem

	var walk func(nodes []LiveCopyNode)
	walk = func(nodes []LiveCopyNode) {
		for _, node := range nodes {
			items = append(items, RolloutItem{
				Master:             node.Master,
				Target:             node.Path,
				Depth:              node.Depth,
				AutoRolloutTrigger: node.AutoRolloutTrigger,
			})
			walk(node.LiveCopies)
		}
	}
	walk(nodes)

	return items
}

// Select keeps the items whose target is listed in targets together with the live copies
// nested below them, preserving order. An empty targets list selects everything.
// Items must be in Flatten order so that a parent precedes its nested live copies.
func Select(items []RolloutItem, targets []string) []RolloutItem {
	if len(targets) == 0 {
		return items
	}

	wanted := targetSet(targets)

	selected := make([]RolloutItem, 0, len(targets))
	for _, item := range items {
		_, listed := wanted[item.Target]
		_, nested := wanted[item.Master]

		if listed || (nested && item.Depth > 0) {
			wanted[item.Target] = struct{}{}
			selected = append(selected, item)
		}
	}

	return selected
}

// SelectExact keeps only the items whose target is listed in targets, preserving order.
// An empty targets list selects everything.
func SelectExact(items []RolloutItem, targets []string) []RolloutItem {
	if len(targets) == 0 {
		return items
	}

	wanted := targetSet(targets)

	selected := make([]RolloutItem, 0, len(targets))
	for _, item := range items {
		if _, ok := wanted[item.Target]; ok {
			selected = append(selected, item)
		}
	}

	return selected
}

func targetSet(targets []string) map[string]struct{} {
	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	return set
}

// FailedTargets returns the targets of unsuccessful statuses, deduplicated in first-seen order.
func FailedTargets(statuses []SyncStatus) []string {
	seen := make(map[string]struct{})
	failed := []string{}

	for _, status := range statuses {
		if status.Success {
			continue
		}

		if _, ok := seen[status.Target]; ok {
			continue
		}

		seen[status.Target] = struct{}{}
		failed = append(failed, status.Target)
	}

	return failed
}
