package manifest

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelFileName(t *testing.T) {
	assert.Equal(t, "panel_1.png", PanelFileName(1, "png"))
	assert.Equal(t, "panel_12.jpg", PanelFileName(12, "jpg"))
}

func TestRectConversion(t *testing.T) {
	r := image.Rect(3, 4, 10, 6)
	mr := FromRectangle(r)
	assert.Equal(t, Rect{X: 3, Y: 4, Width: 7, Height: 2}, mr)
	assert.Equal(t, r, mr.Rectangle())
}

func TestManifest_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "page", FileName)
	src := filepath.Join(dir, "scans", "page.png")

	m := New(100, 80)
	m.SetSource(path, src)
	m.Settings = Settings{Tolerance: 10, ReadingOrder: "rtl"}
	m.Add(1, image.Rect(50, 0, 100, 40), 1800, "png")
	m.Add(2, image.Rect(0, 0, 50, 40), 1900, "png")
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "..", "scans", "page.png"), got.Source)
	assert.Equal(t, src, got.SourcePath(path))
	require.Len(t, got.Panels, 2)
	assert.Equal(t, "panel_2.png", got.Panels[1].File)
	assert.Equal(t, image.Rect(0, 0, 50, 40), got.Panels[1].Area.Rectangle())
	assert.Equal(t, 3700, got.TotalPixels())
	assert.True(t, m.Created.Equal(got.Created))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.Error(t, err)
}
