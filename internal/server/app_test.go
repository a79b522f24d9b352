package server

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/sharebox/internal/server/config"
	"github.com/dmitrijs2005/sharebox/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.BlobRoot = filepath.Join(t.TempDir(), "blobs")
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	return c
}

func TestMinioEndpoint(t *testing.T) {
	tests := []struct {
		raw     string
		host    string
		ssl     bool
		wantErr bool
	}{
		{"http://127.0.0.1:9000", "127.0.0.1:9000", false, false},
		{"https://minio.example.com", "minio.example.com", true, false},
		{"127.0.0.1:9000", "", false, true},
		{"://bad", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			host, ssl, err := minioEndpoint(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.ssl, ssl)
		})
	}
}

func TestNewBlobStore(t *testing.T) {
	c := testConfig(t)

	s, err := newBlobStore(context.Background(), c)
	require.NoError(t, err)
	assert.NotNil(t, s)

	c.BlobBackend = "tape"
	_, err = newBlobStore(context.Background(), c)
	assert.Error(t, err)

	c.BlobBackend = "minio"
	c.S3BaseEndpoint = "no-scheme"
	_, err = newBlobStore(context.Background(), c)
	assert.Error(t, err)
}

func TestNewApp_MemoryBackend(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, app.userService)
	assert.NotNil(t, app.objectService)
	assert.NotNil(t, app.metrics)
}

func TestNewApp_RepositoryError(t *testing.T) {
	orig := openRepositories
	t.Cleanup(func() { openRepositories = orig })
	openRepositories = func(repomanager.Options) (repomanager.RepositoryManager, error) {
		return nil, errors.New("connection refused")
	}

	_, err := NewApp(context.Background(), testConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_BadLogger(t *testing.T) {
	c := testConfig(t)
	c.LogBackend = "syslog"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(15 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
