package utils

import (
	"context"
	"errors"
	"fmt"
	"llm_steps/knowledgebase"
	"llm_steps/model"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/rs/zerolog/log"
)

const (
	fieldID     = "id"
	fieldText   = "text"
	fieldSource = "source"
	fieldPage   = "page"
	fieldChunk  = "chunk"
	fieldDense  = "text_dense"

	maxTextLength   = 65535
	maxSourceLength = 1024
)

var ErrCollectionMissing = errors.New("collection does not exist")

type DBmgr struct {
	client     *milvusclient.Client
	collection string
	dim        int
}

func NewDBMgr(ctx context.Context, addr string, collection string, dim int) (*DBmgr, error) {
	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: addr,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("address", addr).Str("collection", collection).Msg("create milvus client success")
	return &DBmgr{client: client, collection: collection, dim: dim}, nil
}

func (db *DBmgr) Close(ctx context.Context) {
	if db.client != nil {
		if err := db.client.Close(ctx); err != nil {
			log.Error().Err(err).Msg("close milvus client failed")
			return
		}
		log.Info().Msg("close milvus client success")
	}
}

// InitDB creates the collection when it does not exist yet and loads it.
func (db *DBmgr) InitDB(ctx context.Context) error {
	exist, err := db.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(db.collection))
	if err != nil {
		return err
	}
	if !exist {
		schema := entity.NewSchema().WithName(db.collection).WithField(entity.NewField().
			WithName(fieldID).
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true).
			WithIsAutoID(true),
		).WithField(entity.NewField().
			WithName(fieldText).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxTextLength),
		).WithField(entity.NewField().
			WithName(fieldSource).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxSourceLength),
		).WithField(entity.NewField().
			WithName(fieldPage).
			WithDataType(entity.FieldTypeInt64),
		).WithField(entity.NewField().
			WithName(fieldChunk).
			WithDataType(entity.FieldTypeInt64),
		).WithField(entity.NewField().
			WithName(fieldDense).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(db.dim)),
		)

		indexOption := milvusclient.NewCreateIndexOption(db.collection, fieldDense,
			index.NewAutoIndex(index.MetricType(entity.COSINE)))
		err = db.client.CreateCollection(ctx,
			milvusclient.NewCreateCollectionOption(db.collection, schema).
				WithIndexOptions(indexOption))
		if err != nil {
			return fmt.Errorf("create collection %s: %w", db.collection, err)
		}
		log.Info().Str("collection", db.collection).Int("dim", db.dim).Msg("create collection success")
	}
	return db.load(ctx)
}

// Load opens an existing collection for search.
func (db *DBmgr) Load(ctx context.Context) error {
	exist, err := db.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(db.collection))
	if err != nil {
		return err
	}
	if !exist {
		return fmt.Errorf("%w: %s", ErrCollectionMissing, db.collection)
	}
	return db.load(ctx)
}

func (db *DBmgr) load(ctx context.Context) error {
	task, err := db.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(db.collection))
	if err != nil {
		return fmt.Errorf("load collection %s: %w", db.collection, err)
	}
	return task.Await(ctx)
}

func (db *DBmgr) Drop(ctx context.Context) error {
	err := db.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(db.collection))
	if err != nil {
		return fmt.Errorf("drop collection %s: %w", db.collection, err)
	}
	log.Info().Str("collection", db.collection).Msg("drop collection success")
	return nil
}

func (db *DBmgr) Insert(ctx context.Context, docs []model.Document, vectors [][]float32) error {
	cols, err := docColumns(docs, vectors, db.dim)
	if err != nil {
		return err
	}
	_, err = db.client.Insert(ctx,
		milvusclient.NewColumnBasedInsertOption(db.collection).
			WithColumns(cols...),
	)
	return err
}

func docColumns(docs []model.Document, vectors [][]float32, dim int) ([]column.Column, error) {
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("got %d documents but %d vectors", len(docs), len(vectors))
	}
	textCol := make([]string, len(docs))
	sourceCol := make([]string, len(docs))
	pageCol := make([]int64, len(docs))
	chunkCol := make([]int64, len(docs))
	for i, doc := range docs {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("vector %d has dim %d, want %d", i, len(vectors[i]), dim)
		}
		textCol[i] = knowledgebase.Truncate(doc.PageContent, maxTextLength)
		sourceCol[i] = knowledgebase.Truncate(doc.Metadata.Source, maxSourceLength)
		pageCol[i] = int64(doc.Metadata.Page)
		chunkCol[i] = int64(doc.Metadata.Chunk)
	}
	return []column.Column{
		ColumnFromSlice(fieldText, textCol),
		ColumnFromSlice(fieldSource, sourceCol),
		ColumnFromSlice(fieldPage, pageCol),
		ColumnFromSlice(fieldChunk, chunkCol),
		column.NewColumnFloatVector(fieldDense, dim, vectors),
	}, nil
}

func (db *DBmgr) Search(ctx context.Context, vector []float32, topK int) ([]model.Document, error) {
	resultSets, err := db.client.Search(ctx, milvusclient.NewSearchOption(
		db.collection,
		topK,
		[]entity.Vector{entity.FloatVector(vector)},
	).WithANNSField(fieldDense).
		WithOutputFields(fieldText, fieldSource, fieldPage, fieldChunk))
	if err != nil {
		return nil, err
	}
	if len(resultSets) != 1 {
		return nil, fmt.Errorf("expected 1 result set, got %d", len(resultSets))
	}
	return resultDocs(&resultSets[0])
}

func resultDocs(res *milvusclient.ResultSet) ([]model.Document, error) {
	textCol, ok := res.GetColumn(fieldText).(*column.ColumnVarChar)
	if !ok {
		return nil, fmt.Errorf("column %s missing from result", fieldText)
	}
	sourceCol, _ := res.GetColumn(fieldSource).(*column.ColumnVarChar)
	pageCol, _ := res.GetColumn(fieldPage).(*column.ColumnInt64)
	chunkCol, _ := res.GetColumn(fieldChunk).(*column.ColumnInt64)

	texts := textCol.Data()
	docs := make([]model.Document, 0, len(texts))
	for i, text := range texts {
		doc := model.Document{PageContent: text}
		if sourceCol != nil && i < sourceCol.Len() {
			doc.Metadata.Source = sourceCol.Data()[i]
		}
		if pageCol != nil && i < pageCol.Len() {
			doc.Metadata.Page = int(pageCol.Data()[i])
		}
		if chunkCol != nil && i < chunkCol.Len() {
			doc.Metadata.Chunk = int(chunkCol.Data()[i])
		}
		if i < len(res.Scores) {
			doc.Metadata.Score = res.Scores[i]
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
