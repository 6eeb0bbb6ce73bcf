package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	api.DisableConfigDir()
}

func pageCount(t *testing.T, path string) int {
	t.Helper()
	n, err := api.PageCountFile(path)
	require.NoError(t, err)
	return n
}

func TestRenderSummary_ShortTextOnePage(t *testing.T) {
	r, err := New(Options{}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Summary.pdf")
	require.NoError(t, r.RenderSummary(path, "Course", "A short summary."))

	assert.Equal(t, 1, pageCount(t, path))
}

func TestRenderSummary_LongTextBreaksPages(t *testing.T) {
	r, err := New(DefaultOptions(), nil)
	require.NoError(t, err)

	text := strings.Repeat("The summary keeps going across many wrapped lines of text. ", 400)
	path := filepath.Join(t.TempDir(), "Summary.pdf")
	require.NoError(t, r.RenderSummary(path, "Course", text))

	assert.Greater(t, pageCount(t, path), 1)
}

func TestRenderSummary_ExtendedCharacters(t *testing.T) {
	r, err := New(Options{}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Özet.pdf")
	require.NoError(t, r.RenderSummary(path, "Ders Özeti", "Çalışma güçlü şekilde ilerledi. Přehled, Łódź, Größe."))
	assert.Equal(t, 1, pageCount(t, path))
}

func TestRenderSummary_EmptyText(t *testing.T) {
	r, err := New(Options{}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Summary.pdf")
	require.NoError(t, r.RenderSummary(path, "Course", ""))
	assert.Equal(t, 1, pageCount(t, path))
}

func TestNew_MissingFont(t *testing.T) {
	_, err := New(Options{FontPath: filepath.Join(t.TempDir(), "DejaVuSans.ttf")}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFontNotFound)
}

func TestRenderSummary_InvalidFontFile(t *testing.T) {
	fontPath := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(fontPath, []byte("not a font"), 0o644))

	r, err := New(Options{FontPath: fontPath}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Summary.pdf")
	assert.Error(t, r.RenderSummary(path, "Course", "text"))
}

func TestRenderSummary_UnwritablePath(t *testing.T) {
	r, err := New(Options{}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "no", "such", "dir", "Summary.pdf")
	assert.Error(t, r.RenderSummary(path, "Course", "text"))
}

func TestRenderTitlePage_SinglePage(t *testing.T) {
	r, err := New(Options{}, nil)
	require.NoError(t, err)

	sources := make([]string, 60)
	for i := range sources {
		sources[i] = "lecture-notes.pdf"
	}
	path := filepath.Join(t.TempDir(), "Course.pdf")
	require.NoError(t, r.RenderTitlePage(path, TitlePage{
		Title:     "Distributed Systems",
		Subtitle:  "Course summary",
		Sources:   sources,
		Generated: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}))

	assert.Equal(t, 1, pageCount(t, path))
}
