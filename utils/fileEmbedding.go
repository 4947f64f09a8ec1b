package utils

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultEmbeddingModel = "text-embedding-3-small"
	embedBatchSize        = 256
)

type Model struct {
	*openai.Client
	apikey         string
	baseUrl        string
	embeddingModel string
}

// NewModel builds an OpenAI compatible client. An empty baseurl keeps the
// library default.
func NewModel(baseurl string, apikey string) *Model {
	cfg := openai.DefaultConfig(apikey)
	if baseurl != "" {
		cfg.BaseURL = baseurl
	}
	return &Model{
		Client:         openai.NewClientWithConfig(cfg),
		apikey:         apikey,
		baseUrl:        cfg.BaseURL,
		embeddingModel: DefaultEmbeddingModel,
	}
}

func (m *Model) WithEmbeddingModel(name string) *Model {
	if name != "" {
		m.embeddingModel = name
	}
	return m
}

// EmbedText embeds text in batches, keeping the input order.
func (m *Model) EmbedText(ctx context.Context, text []string) ([][]float32, error) {
	res := make([][]float32, len(text))
	for start := 0; start < len(text); start += embedBatchSize {
		end := min(start+embedBatchSize, len(text))
		resp, err := m.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Model:          openai.EmbeddingModel(m.embeddingModel),
			Input:          text[start:end],
			EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("embedding result length %d not correct", len(resp.Data))
		}
		for i, emb := range resp.Data {
			idx := i
			if emb.Index >= 0 && emb.Index < end-start {
				idx = emb.Index
			}
			res[start+idx] = emb.Embedding
		}
		log.Debug().Int("batch", end-start).Str("model", m.embeddingModel).Msg("embedding batch success")
	}
	for i := range res {
		if res[i] == nil {
			return nil, fmt.Errorf("embedding missing for input %d", i)
		}
	}
	return res, nil
}

func ColumnFromSlice[T any](name string, data []T) column.Column {
	switch any(data).(type) {
	case []int32:
		return column.NewColumnInt32(name, any(data).([]int32))
	case []int64:
		return column.NewColumnInt64(name, any(data).([]int64))
	case []float32:
		return column.NewColumnFloat(name, any(data).([]float32))
	case []float64:
		return column.NewColumnDouble(name, any(data).([]float64))
	case []string:
		return column.NewColumnVarChar(name, any(data).([]string))
	case []bool:
		return column.NewColumnBool(name, any(data).([]bool))
	default:
		log.Fatal().Msgf("unsupported column type %T", data)
		return nil
	}
}
