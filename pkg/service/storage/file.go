package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/vulntrend/pkg/domain/interfaces"
	"github.com/secmon-lab/vulntrend/pkg/domain/model"
)

// File reads snapshots from a local directory
type File struct {
	dir string
}

// NewFile creates a reader rooted at dir
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Read reads <dir>/<key>
func (f *File) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "read cancelled", goerr.V("key", key))
	}

	p := filepath.Join(f.dir, filepath.FromSlash(key))
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "snapshot file does not exist", goerr.V("path", p))
		}
		return nil, goerr.Wrap(err, "failed to read snapshot file", goerr.V("path", p))
	}

	return data, nil
}

var _ interfaces.SnapshotReader = (*File)(nil)
