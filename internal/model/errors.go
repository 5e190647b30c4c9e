package model

import "errors"

var (
	// ErrNotFound indicates a referenced node is absent from the backing tree.
	ErrNotFound = errors.New("node not found")
	// ErrInvalidInput indicates a malformed or empty request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSyncFailed indicates the sync primitive failed for a target.
	ErrSyncFailed = errors.New("sync failed")
	// ErrPublishFailed indicates the publish primitive failed for a node.
	ErrPublishFailed = errors.New("publish failed")
)
