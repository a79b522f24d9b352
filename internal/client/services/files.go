package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/dmitrijs2005/sharebox/internal/client/client"
	"github.com/dmitrijs2005/sharebox/internal/filex"
	"github.com/dmitrijs2005/sharebox/internal/netx"
	"github.com/dmitrijs2005/sharebox/internal/rpc"
	"github.com/spf13/afero"
)

// FileService moves files between the local disk and the server.
type FileService interface {
	Upload(ctx context.Context, path string) (*rpc.ObjectInfo, error)
	List(ctx context.Context) ([]rpc.ObjectInfo, error)
	Info(ctx context.Context, id string) (*rpc.ObjectInfo, error)
	Share(ctx context.Context, id, access string, password *string) (string, error)
	Download(ctx context.Context, id string) (string, error)
	Fetch(ctx context.Context, linkOrID string, password *string) (string, error)
	Delete(ctx context.Context, id string) error
}

type fileService struct {
	client      client.Client
	fs          afero.Fs
	downloadDir string
}

// NewFileService reads uploads from and writes downloads to fsys;
// downloads land in downloadDir.
func NewFileService(c client.Client, fsys afero.Fs, downloadDir string) FileService {
	return &fileService{client: c, fs: fsys, downloadDir: downloadDir}
}

// fetchShareLink is a seam for tests.
var fetchShareLink = netx.FetchShareLink

func (s *fileService) Upload(ctx context.Context, path string) (*rpc.ObjectInfo, error) {
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.client.Upload(ctx, filepath.Base(path), content)
}

func (s *fileService) List(ctx context.Context) ([]rpc.ObjectInfo, error) {
	return s.client.List(ctx)
}

func (s *fileService) Info(ctx context.Context, id string) (*rpc.ObjectInfo, error) {
	return s.client.Info(ctx, id)
}

func (s *fileService) Share(ctx context.Context, id, access string, password *string) (string, error) {
	return s.client.SetPermission(ctx, id, access, password)
}

// Download saves one of the caller's own objects and returns the local path.
func (s *fileService) Download(ctx context.Context, id string) (string, error) {
	resp, err := s.client.Download(ctx, id)
	if err != nil {
		return "", err
	}
	return s.save(resp.Name, resp.Content)
}

// Fetch resolves a share link and saves the object. A full http(s) link is
// fetched over HTTP from whichever server issued it; a bare link id goes
// through the connected server.
func (s *fileService) Fetch(ctx context.Context, linkOrID string, password *string) (string, error) {
	if isHTTPLink(linkOrID) {
		got, err := fetchShareLink(ctx, linkOrID, password)
		if err != nil {
			return "", mapHTTPError(err)
		}
		return s.save(got.Name, got.Content)
	}

	resp, err := s.client.FetchShared(ctx, linkOrID, password)
	if err != nil {
		return "", err
	}
	return s.save(resp.Name, resp.Content)
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, id)
}

func (s *fileService) save(name string, content []byte) (string, error) {
	if err := s.fs.MkdirAll(s.downloadDir, 0o770); err != nil {
		return "", err
	}
	path, err := filex.UniquePath(s.fs, s.downloadDir, name)
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, path, content, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func isHTTPLink(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func mapHTTPError(err error) error {
	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", client.ErrUnavailable, err)
	}
	switch se.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", client.ErrUnauthorized, se.Body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", client.ErrForbidden, se.Body)
	case http.StatusNotFound:
		return client.ErrNotFound
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", client.ErrUnavailable, se.Status)
	default:
		return err
	}
}
