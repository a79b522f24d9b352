package blobs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// FSStore keeps bytes as files under a root directory of an afero.Fs.
// Writes go to a temporary file that is renamed into place once complete.
type FSStore struct {
	fs   afero.Fs
	root string
}

// NewFSStore returns a store rooted at root on the OS filesystem.
func NewFSStore(root string) (*FSStore, error) {
	return NewFSStoreOn(afero.NewOsFs(), root)
}

// NewFSStoreOn returns a store rooted at root on fsys.
func NewFSStoreOn(fsys afero.Fs, root string) (*FSStore, error) {
	if err := fsys.MkdirAll(root, 0o750); err != nil {
		return nil, unavailable("init", root, err)
	}
	return &FSStore{fs: fsys, root: root}, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *FSStore) Write(ctx context.Context, ownerID, key string, r io.Reader) (int64, error) {
	if err := checkOwnerKey(ownerID, key); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dst := s.path(key)
	if err := s.fs.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return 0, unavailable("write", key, err)
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, unavailable("write", key, err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = s.fs.Rename(tmpName, dst)
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, unavailable("write", key, err)
	}
	return n, nil
}

func (s *FSStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(s.path(key))
	if err != nil {
		return nil, unavailable("read", key, err)
	}
	return f, nil
}

func (s *FSStore) Remove(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unavailable("remove", key, err)
	}
	return nil
}
