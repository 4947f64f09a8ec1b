package context

import (
	"bytes"
	"encoding/json"
	"llm_steps/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderDocs(t *testing.T) {
	t.Run("json array with page metadata", func(t *testing.T) {
		docs := []model.Document{
			{PageContent: "let & const are block scoped", Metadata: model.DocumentMetadata{Source: "js.pdf", Page: 3}},
			{PageContent: "closures", Metadata: model.DocumentMetadata{Source: "js.pdf", Page: 7, Chunk: 1}},
		}
		got, err := RenderDocs(docs)
		require.NoError(t, err)
		require.Contains(t, got, "let & const")

		var back []model.Document
		require.NoError(t, json.Unmarshal([]byte(got), &back))
		require.Equal(t, docs, back)
	})

	t.Run("nil renders as empty array", func(t *testing.T) {
		got, err := RenderDocs(nil)
		require.NoError(t, err)
		require.Equal(t, "[]", got)
	})
}

func TestWriteSources(t *testing.T) {
	t.Run("preview truncates", func(t *testing.T) {
		var buf bytes.Buffer
		WriteSources(&buf, []model.Document{
			{PageContent: "abcdefghij", Metadata: model.DocumentMetadata{Source: "a.pdf", Page: 2}},
		}, 4)
		require.Contains(t, buf.String(), "abcd...")
		require.Contains(t, buf.String(), "Page: 2")
	})

	t.Run("no docs", func(t *testing.T) {
		var buf bytes.Buffer
		WriteSources(&buf, nil, 0)
		require.Contains(t, buf.String(), "NO matching chunks")
	})
}
