package context

import (
	"bytes"
	"encoding/json"
	"fmt"
	"llm_steps/model"
	"strings"
)

// RenderDocs encodes retrieved documents as the JSON array embedded in the
// RAG system prompt.
func RenderDocs(docs []model.Document) (string, error) {
	if docs == nil {
		docs = []model.Document{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func writeDocChunk(doc model.Document) string {
	var strBuilder strings.Builder
	strBuilder.WriteString("--- CHUNK START ---\n")
	strBuilder.WriteString(fmt.Sprintf("Source: %s\n", doc.Metadata.Source))
	strBuilder.WriteString(fmt.Sprintf("Page: %d, Chunk: %d, Score: %.4f\n", doc.Metadata.Page, doc.Metadata.Chunk, doc.Metadata.Score))
	strBuilder.WriteString("Text:\n")
	strBuilder.WriteString(doc.PageContent)
	strBuilder.WriteString("\n--- CHUNK END ---\n")
	return strBuilder.String()
}

// WriteSources renders retrieved documents for humans, previewing at most
// preview runes of each chunk (0 = whole chunk).
func WriteSources(buf *bytes.Buffer, docs []model.Document, preview int) {
	buf.WriteString("# Sources\n\n")
	if len(docs) == 0 {
		buf.WriteString("NO matching chunks\n")
		return
	}
	for _, doc := range docs {
		if preview > 0 {
			runes := []rune(doc.PageContent)
			if len(runes) > preview {
				doc.PageContent = string(runes[:preview]) + "..."
			}
		}
		buf.WriteString(writeDocChunk(doc))
		buf.WriteByte('\n')
	}
}
