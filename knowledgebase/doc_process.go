package knowledgebase

import (
	"fmt"
	"llm_steps/model"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

var paragraphSep = regexp.MustCompile(`\n{2,}`)

// LoadPDF loads the file page by page, one document per page that has text.
func LoadPDF(path string) ([]model.Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	var docs []model.Document
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Error().Err(err).Int("page", i).Msg("extract page text failed")
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, model.Document{
			PageContent: text,
			Metadata: model.DocumentMetadata{
				Source: path,
				Page:   i,
			},
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no text found in pdf %s", path)
	}
	log.Info().Str("file", path).Int("pages", len(docs)).Msg("load pdf success")
	return docs, nil
}

// Split breaks documents into chunks of at most size runes, cutting at
// paragraph boundaries where possible. size <= 0 returns docs unchanged.
func Split(docs []model.Document, size int, overlap int) []model.Document {
	if size <= 0 {
		return docs
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	var res []model.Document
	for _, doc := range docs {
		for i, chunk := range splitText(doc.PageContent, size, overlap) {
			d := doc
			d.PageContent = chunk
			d.Metadata.Chunk = i
			res = append(res, d)
		}
	}
	return res
}

func splitText(text string, size int, overlap int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
		currentLen = 0
	}
	for _, para := range paragraphSep.Split(strings.TrimSpace(text), -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		paraLen := utf8.RuneCountInString(para)
		if paraLen > size {
			flush()
			chunks = append(chunks, window(para, size, overlap)...)
			continue
		}
		if currentLen > 0 && currentLen+2+paraLen > size {
			flush()
		}
		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(para)
		currentLen += paraLen
	}
	flush()
	return chunks
}

// window cuts text into fixed windows of size runes sharing overlap runes.
func window(text string, size int, overlap int) []string {
	runes := []rune(text)
	step := size - overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// Truncate cuts text to at most limit bytes without splitting a rune.
func Truncate(text string, limit int) string {
	if limit < 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
