package interfaces

//go:generate moq -out mocks/storage_mock.go -pkg mocks . SnapshotReader

import "context"

// SnapshotReader reads raw snapshot documents by key ("<service>/<YYYY-MM-DD>.json")
// relative to a data root. A missing document yields an error wrapping
// model.ErrSnapshotNotFound.
type SnapshotReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}
