package organize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/gamerank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSanitizeDirName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"IGN", "IGN"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"  Polygon.. ", "Polygon"},
		{"con", "con_"},
		{"LPT9", "LPT9_"},
		{"COM10", "COM10"},
		{" . ", unknownSource},
		{"", unknownSource},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeDirName(tt.in))
		})
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ign - x.csv")
	assert.Equal(t, path, uniquePath(path, nil))

	touch(t, path, "")
	touch(t, filepath.Join(dir, "ign - x (1).csv"), "")
	assert.Equal(t, filepath.Join(dir, "ign - x (2).csv"), uniquePath(path, map[string]struct{}{}))

	taken := map[string]struct{}{filepath.Join(dir, "ign - x (2).csv"): {}}
	assert.Equal(t, filepath.Join(dir, "ign - x (3).csv"), uniquePath(path, taken))
}

func TestPlanAndApply(t *testing.T) {
	root := t.TempDir()
	list := filepath.Join(root, "rpg")
	touch(t, filepath.Join(list, "IGN - 2025-01-17_20-08-18.csv"), "a")
	touch(t, filepath.Join(list, "IGN - 2024-01-01_00-00-00.csv"), "b")
	touch(t, filepath.Join(list, "GameSpot: Top - 2025.csv"), "c")
	touch(t, filepath.Join(list, "notes.csv"), "d")
	touch(t, filepath.Join(list, "aggregated-list.csv"), "e")
	touch(t, filepath.Join(list, "About.CSV"), "f")
	touch(t, filepath.Join(list, "IGN", "IGN - 2025-01-17_20-08-18.csv"), "old")

	moves, err := Plan(list)
	require.NoError(t, err)
	assert.Equal(t, []schema.OrganizeMove{
		{From: filepath.Join(list, "GameSpot: Top - 2025.csv"), To: filepath.Join(list, "GameSpot_ Top", "GameSpot: Top - 2025.csv")},
		{From: filepath.Join(list, "IGN - 2024-01-01_00-00-00.csv"), To: filepath.Join(list, "IGN", "IGN - 2024-01-01_00-00-00.csv")},
		{From: filepath.Join(list, "IGN - 2025-01-17_20-08-18.csv"), To: filepath.Join(list, "IGN", "IGN - 2025-01-17_20-08-18 (1).csv")},
	}, moves)

	require.NoError(t, Apply(moves))
	for _, m := range moves {
		assert.NoFileExists(t, m.From)
		assert.FileExists(t, m.To)
	}
	data, err := os.ReadFile(filepath.Join(list, "IGN", "IGN - 2025-01-17_20-08-18 (1).csv"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	assert.FileExists(t, filepath.Join(list, "notes.csv"))
	assert.FileExists(t, filepath.Join(list, "aggregated-list.csv"))
	assert.FileExists(t, filepath.Join(list, "About.CSV"))
}

func TestOrganizeDryRun(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "rpg", "IGN - a.csv"), "")
	touch(t, filepath.Join(root, "indie", "Polygon - b.csv"), "")

	moves, err := Organize(root, nil, true)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, filepath.Join(root, "indie", "Polygon", "Polygon - b.csv"), moves[0].To)
	assert.Equal(t, filepath.Join(root, "rpg", "IGN", "IGN - a.csv"), moves[1].To)

	assert.FileExists(t, filepath.Join(root, "rpg", "IGN - a.csv"))
	assert.NoDirExists(t, filepath.Join(root, "rpg", "IGN"))
}

func TestOrganizeNamedList(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "rpg", "IGN - a.csv"), "")
	touch(t, filepath.Join(root, "indie", "Polygon - b.csv"), "")

	moves, err := Organize(root, []string{"rpg"}, false)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.FileExists(t, filepath.Join(root, "rpg", "IGN", "IGN - a.csv"))
	assert.FileExists(t, filepath.Join(root, "indie", "Polygon - b.csv"))

	_, err = Organize(root, []string{"missing"}, false)
	assert.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	dst := filepath.Join(dir, "dst.csv")
	touch(t, src, "payload")

	require.NoError(t, copyFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.Error(t, copyFile(src, dst), "existing destination is never overwritten")
}
