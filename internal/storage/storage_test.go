package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/blues/arbigrants/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagingKey(t *testing.T) {
	t.Parallel()

	a := StagingKey("logo.png")
	b := StagingKey("logo.png")

	assert.True(t, strings.HasPrefix(a, StagingPrefix))
	assert.True(t, strings.HasSuffix(a, "/logo.png"))
	assert.NotEqual(t, a, b)
}

func TestLogoKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		project  string
		filename string
		want     string
	}{
		{name: "simple", project: "Foo", filename: "foo.png", want: "logos/foo-1cbec737/foo.png"},
		{name: "case differs", project: "FOO", filename: "foo.png", want: "logos/foo-9520437c/foo.png"},
		{name: "spaces and punctuation", project: "Camelot DEX (v3)", filename: "icon final.jpg", want: "logos/camelot-dex-v3-1aba6810/icon_final.jpg"},
		{name: "path traversal in filename", project: "Foo", filename: "../../etc/passwd", want: "logos/foo-1cbec737/passwd"},
		{name: "windows path", project: "Foo", filename: `C:\Users\me\logo.jpeg`, want: "logos/foo-1cbec737/logo.jpeg"},
		{name: "no usable name", project: "!!!", filename: "a.png", want: "logos/project-e84c538e/a.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LogoKey(tt.project, tt.filename))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "image/png", ContentTypeFor("a.PNG"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpeg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.gif"))
}

func TestPromote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore("https://cdn.example.com/arb_logos")
	require.NoError(t, store.Put(ctx, "staging/1/logo.png", []byte("png"), "image/png"))

	require.NoError(t, Promote(ctx, store, "staging/1/logo.png", "logos/foo/logo.png"))

	data, contentType, ok := store.Get("logos/foo/logo.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, "image/png", contentType)

	_, _, ok = store.Get("staging/1/logo.png")
	assert.False(t, ok)
}

func TestPromote_MissingSource(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore("")
	err := Promote(context.Background(), store, "staging/missing.png", "logos/foo/logo.png")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListAndPublicURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore("https://cdn.example.com/arb_logos/")
	then := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return then })

	require.NoError(t, store.Put(ctx, "staging/b/x.png", nil, "image/png"))
	require.NoError(t, store.Put(ctx, "staging/a/x.png", nil, "image/png"))
	require.NoError(t, store.Put(ctx, "logos/foo/x.png", nil, "image/png"))

	objs, err := store.List(ctx, StagingPrefix)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "staging/a/x.png", objs[0].Key)
	assert.Equal(t, then, objs[0].LastModified)

	assert.Equal(t, "https://cdn.example.com/arb_logos/logos/my%20project/x.png", store.PublicURL("logos/my project/x.png"))
}

func TestNew(t *testing.T) {
	t.Parallel()

	store, err := New(config.StorageConfig{Driver: "memory", PublicBaseURL: "http://localhost:8080/logos"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = New(config.StorageConfig{Driver: "S3", Bucket: "arb-logos", Region: "us-east-1"})
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, store)

	_, err = New(config.StorageConfig{Driver: "gcs"})
	require.ErrorContains(t, err, "unknown storage driver")
}
