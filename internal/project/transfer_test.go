package project

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	p, err := New("demo", "https://u:p@github.com/acme/demo", "main")
	require.NoError(t, err)
	p.Languages = []string{"en", "zh_CN"}
	p.Latest = "v2"
	p.HideGit = true
	p.Secret = "s3cret"
	require.NoError(t, src.Create(ctx, p))

	stored, err := src.Get(ctx, "demo")
	require.NoError(t, err)
	encoded, err := Export(stored)
	require.NoError(t, err)
	assert.NotContains(t, encoded, "s3cret")

	dst := newTestStore(t)
	got, err := Import(encoded, "")
	require.NoError(t, err)
	require.NoError(t, dst.Create(ctx, got))

	imported, err := dst.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, stored.URL, imported.URL)
	assert.Equal(t, []string{"en", "zh_CN"}, imported.Languages)
	assert.Equal(t, "v2", imported.Latest)
	assert.True(t, imported.HideGit)
	assert.False(t, imported.Public)
	assert.Equal(t, GSPGitHub, imported.GSP)
	assert.Empty(t, imported.Secret)
	assert.NotEqual(t, stored.ID, imported.ID)
}

func TestImportRename(t *testing.T) {
	p, err := New("demo", "https://github.com/acme/demo", "main")
	require.NoError(t, err)
	encoded, err := Export(p)
	require.NoError(t, err)

	got, err := Import(encoded, "Demo-Copy")
	require.NoError(t, err)
	assert.Equal(t, "demo-copy", got.Name)

	_, err = Import(encoded, "-bad")
	assert.Error(t, err)
}

func TestImportRejectsBadInput(t *testing.T) {
	_, err := Import("not base64!", "")
	assert.Error(t, err)

	_, err = Import(base64.StdEncoding.EncodeToString([]byte("{")), "")
	assert.Error(t, err)

	unsupported := base64.StdEncoding.EncodeToString([]byte(`{"name":"demo","url":"https://gitlab.com/acme/demo"}`))
	_, err = Import(unsupported, "")
	assert.Error(t, err)

	minimal := base64.StdEncoding.EncodeToString([]byte(`{"name":"demo","url":"https://gitee.com/acme/demo"}`))
	p, err := Import(minimal, "")
	require.NoError(t, err)
	assert.Equal(t, "master", p.DefaultBranch)
	assert.Equal(t, "master", p.Latest)
	assert.Equal(t, BuilderHTML, p.Builder)
	assert.Equal(t, GSPGitee, p.GSP)
}
