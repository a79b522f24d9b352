package blobs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/sharebox/internal/common"
)

func TestNewStorageKey(t *testing.T) {
	tests := []struct {
		name    string
		display string
		wantExt string
	}{
		{"plain", "report.PDF", ".pdf"},
		{"no ext", "README", ""},
		{"dotfile", ".", ""},
		{"weird ext", "a.p$f", ""},
		{"long ext", "a." + strings.Repeat("x", 20), ""},
		{"windows path", `C:\docs\photo.jpg`, ".jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewStorageKey("owner-1", tt.display)
			assert.True(t, strings.HasPrefix(k, "owner-1/"))
			assert.True(t, strings.HasSuffix(k, tt.wantExt))
			assert.NoError(t, checkOwnerKey("owner-1", k))
			assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(k, "owner-1/"), tt.wantExt), 36)
		})
	}
	assert.NotEqual(t, NewStorageKey("o", "a.txt"), NewStorageKey("o", "a.txt"))
}

func TestCheckOwnerKey(t *testing.T) {
	assert.NoError(t, checkOwnerKey("alice", "alice/x.bin"))
	assert.ErrorIs(t, checkOwnerKey("alice", "bob/x.bin"), common.ErrForbidden)
	assert.ErrorIs(t, checkOwnerKey("", "x.bin"), common.ErrForbidden)
	assert.ErrorIs(t, checkOwnerKey("alice", "alice/../bob/x"), common.ErrInvalidInput)
	assert.ErrorIs(t, checkOwnerKey("alice", "/alice/x"), common.ErrInvalidInput)
	assert.ErrorIs(t, checkOwnerKey("alice", ""), common.ErrInvalidInput)
}

func TestUnavailable_WrapsBoth(t *testing.T) {
	cause := errors.New("disk on fire")
	err := unavailable("read", "k", cause)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.True(t, common.IsRetryable(err))
	assert.Contains(t, err.Error(), `blobs: read "k"`)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(unavailable("read", "k", fmt.Errorf("x: %w", fs.ErrNotExist))))
	assert.False(t, IsMissing(errors.New("other")))
}
