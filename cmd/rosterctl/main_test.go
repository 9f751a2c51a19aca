package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduct-server-go/db"
	"conduct-server-go/export"
	"conduct-server-go/models"
	"conduct-server-go/roster"
)

func newTestStore(t *testing.T) *roster.Store {
	t.Helper()
	color.NoColor = true
	s := roster.NewStore(db.NewMemoryBlobStore(nil), 0)
	s.Load(context.Background())
	return s
}

func TestRun_ImportTagExport(t *testing.T) {
	store := newTestStore(t)
	var out bytes.Buffer

	require.NoError(t, run(store, &out, "add-class", []string{"7A"}, true))

	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name\nAli\nSara\n"), 0o600))
	require.NoError(t, run(store, &out, "import", []string{"7A", path}, true))

	out.Reset()
	require.NoError(t, run(store, &out, "tag", []string{"7A", "1", "-pos", "respect,homework", "-neg", "tardy"}, true))
	assert.Equal(t, "Sara: 1\n", out.String())

	out.Reset()
	require.NoError(t, run(store, &out, "export", []string{"7A"}, true))
	assert.Equal(t, export.ClassHeader+"\nAli\t0\t\t\nSara\t1\tواجبات,احترام\tتأخر\n", out.String())

	out.Reset()
	require.NoError(t, run(store, &out, "list", nil, true))
	assert.Contains(t, out.String(), "7A")

	out.Reset()
	require.NoError(t, run(store, &out, "show", []string{"7A"}, true))
	assert.Contains(t, out.String(), "Sara")
}

func TestRun_ImportPairsAndExportAll(t *testing.T) {
	store := newTestStore(t)
	var out bytes.Buffer

	path := filepath.Join(t.TempDir(), "pairs.csv")
	require.NoError(t, os.WriteFile(path, []byte("8B,Omar\n7A,Ali\n9C,Zed\n7A,Sara\n"), 0o600))
	require.NoError(t, run(store, &out, "import-pairs", []string{path}, true))
	assert.Equal(t, "8B: 1\n7A: 2\n9C: 1\n", out.String())

	out.Reset()
	require.NoError(t, run(store, &out, "export", nil, true))
	assert.Equal(t, "\ufeffclass,name,score,positive,negative\n8B,Omar,0,,\n7A,Ali,0,,\n7A,Sara,0,,\n9C,Zed,0,,\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	store := newTestStore(t)
	var out bytes.Buffer

	assert.Error(t, run(store, &out, "show", nil, true))
	assert.ErrorIs(t, run(store, &out, "show", []string{"missing"}, true), roster.ErrClassNotFound)
	assert.ErrorIs(t, run(store, &out, "tag", []string{"missing", "0"}, true), roster.ErrClassNotFound)
	assert.Error(t, run(store, &out, "tag", []string{"7A", "first"}, true))
	assert.Error(t, run(store, &out, "bogus", nil, true))
}

func TestRun_WritesNeedOffline(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddClass("7A"))
	_, err := store.AddStudent("7A", "Ali")
	require.NoError(t, err)
	var out bytes.Buffer

	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("7A,Sara\n"), 0o600))

	for _, tc := range []struct {
		cmd  string
		args []string
	}{
		{"add-class", []string{"8B"}},
		{"import", []string{"7A", path}},
		{"import-pairs", []string{path}},
		{"tag", []string{"7A", "0", "-pos", "respect"}},
	} {
		assert.ErrorIs(t, run(store, &out, tc.cmd, tc.args, false), ErrReadOnly, tc.cmd)
	}
	assert.Equal(t, []models.Clazz{{Name: "7A", Students: []models.Student{models.NewStudent("Ali")}}}, store.Snapshot())

	require.NoError(t, run(store, &out, "list", nil, false))
	require.NoError(t, run(store, &out, "show", []string{"7A"}, false))
	require.NoError(t, run(store, &out, "export", []string{"7A"}, false))
	assert.Contains(t, out.String(), "Ali")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}
