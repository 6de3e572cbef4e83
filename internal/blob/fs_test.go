package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	info, err := s.Put(ctx, "libs/units_lib.zip", strings.NewReader("zipdata"), PutOptions{
		ContentType: "application/zip",
		Metadata:    map[string]string{"version": "2.0.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.Size)
	assert.Len(t, info.ETag, 64)

	head, err := s.Head(ctx, "libs/units_lib.zip")
	require.NoError(t, err)
	assert.Equal(t, "application/zip", head.ContentType)
	assert.Equal(t, "2.0.0", head.Metadata["version"])

	_, rc, err := s.Get(ctx, "libs/units_lib.zip")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "zipdata", string(body))

	_, err = s.Put(ctx, "libs/units_lib.zip", strings.NewReader("again"), PutOptions{})
	assert.True(t, errors.Is(err, ErrExists))

	info, err = s.Put(ctx, "libs/units_lib.zip", strings.NewReader("again"), PutOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)

	list, err := s.List(ctx, "libs/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "libs/units_lib.zip", list[0].Key)

	ok, err := s.Delete(ctx, "libs/units_lib.zip")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Delete(ctx, "libs/units_lib.zip")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Head(ctx, "libs/units_lib.zip")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, _, err = s.Get(ctx, "libs/units_lib.zip")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFilesystemListPrefix(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFilesystem(root)
	require.NoError(t, err)

	for _, key := range []string{"b.zip", "a/x.zip", "a/y.zip"} {
		_, err := s.Put(ctx, key, strings.NewReader(key), PutOptions{})
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	keys := make([]string, len(all))
	for i, info := range all {
		keys[i] = info.Key
	}
	assert.Equal(t, []string{"a/x.zip", "a/y.zip", "b.zip"}, keys)

	some, err := s.List(ctx, "a/")
	require.NoError(t, err)
	assert.Len(t, some, 2)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "a/b.zip"},
		{key: "", wantErr: true},
		{key: "../escape", wantErr: true},
		{key: "/abs", wantErr: true},
		{key: "x.meta", wantErr: true},
	}
	for _, tt := range tests {
		_, err := sanitizeKey(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("sanitizeKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestParseDriver(t *testing.T) {
	d, err := ParseDriver("")
	require.NoError(t, err)
	assert.Equal(t, DriverNone, d)

	d, err = ParseDriver("S3")
	require.NoError(t, err)
	assert.Equal(t, DriverS3, d)

	_, err = ParseDriver("gcs")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, Config{Driver: DriverFilesystem, FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, Config{Driver: DriverS3})
	assert.Error(t, err, "bucket is required")
}
