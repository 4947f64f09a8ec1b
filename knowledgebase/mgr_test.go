package knowledgebase

import (
	"llm_steps/model"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("size zero keeps pages", func(t *testing.T) {
		docs := []model.Document{{PageContent: "a\n\nb", Metadata: model.DocumentMetadata{Page: 1}}}
		require.Equal(t, docs, Split(docs, 0, 0))
	})

	t.Run("packs paragraphs and keeps metadata", func(t *testing.T) {
		docs := []model.Document{{
			PageContent: "aaa\n\nbbb\n\n\ncc",
			Metadata:    model.DocumentMetadata{Source: "js.pdf", Page: 4},
		}}
		got := Split(docs, 8, 0)
		require.Len(t, got, 2)
		require.Equal(t, "aaa\n\nbbb", got[0].PageContent)
		require.Equal(t, "cc", got[1].PageContent)
		require.Equal(t, 0, got[0].Metadata.Chunk)
		require.Equal(t, 1, got[1].Metadata.Chunk)
		require.Equal(t, 4, got[1].Metadata.Page)
		require.Equal(t, "js.pdf", got[1].Metadata.Source)
	})

	t.Run("long paragraph uses overlapping windows", func(t *testing.T) {
		docs := []model.Document{{PageContent: "abcdefghij"}}
		got := Split(docs, 4, 1)
		var texts []string
		for _, d := range got {
			texts = append(texts, d.PageContent)
		}
		require.Equal(t, []string{"abcd", "defg", "ghij"}, texts)
	})

	t.Run("invalid overlap is ignored", func(t *testing.T) {
		require.Equal(t, []string{"abc", "def"}, window("abcdef", 3, 0))
		got := Split([]model.Document{{PageContent: "abcdef"}}, 3, 5)
		require.Len(t, got, 2)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		got := splitText("ééé\n\nààà", 8, 0)
		require.Len(t, got, 1)
	})
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "hello", Truncate("hello", 10))
	require.Equal(t, "hel", Truncate("hello", 3))
	// "é" is two bytes, cutting in the middle backs off to the rune start.
	require.Equal(t, "a", Truncate("aé", 2))
	require.Equal(t, "aé", Truncate("aé", 3))
	require.Equal(t, "x", Truncate("x", -1))
}

func TestLoadPDF(t *testing.T) {
	t.Run("one document per page with text", func(t *testing.T) {
		path := filepath.Join("testdata", "pages.pdf")
		docs, err := LoadPDF(path)
		require.NoError(t, err)
		require.Len(t, docs, 2)

		require.Equal(t, 1, docs[0].Metadata.Page)
		require.Equal(t, 3, docs[1].Metadata.Page)
		require.Contains(t, docs[0].PageContent, "Hello page one")
		require.Contains(t, docs[1].PageContent, "Closures capture scope")
		for _, doc := range docs {
			require.Equal(t, path, doc.Metadata.Source)
			require.Equal(t, 0, doc.Metadata.Chunk)
			require.Equal(t, strings.TrimSpace(doc.PageContent), doc.PageContent)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPDF(filepath.Join(t.TempDir(), "missing.pdf"))
		require.Error(t, err)
	})

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.pdf")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("plain text ", 20)), 0o644))
		_, err := LoadPDF(path)
		require.Error(t, err)
	})
}
