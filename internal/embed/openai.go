// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/llm-wikimedia/internal/logging"
	"github.com/pdiddy/llm-wikimedia/internal/store"
	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, input string) ([]float32, error)
}

type embeddingClient interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	embeddings embeddingClient
	model      string
}

// NewOpenAIEmbedder returns an embedder for model. An empty model uses
// types.DefaultOpenAIModel; an empty base URL uses the OpenAI default.
func NewOpenAIEmbedder(cfg types.OpenAIConfig, model string, httpClient *http.Client) (*OpenAIEmbedder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required (set openai.api_key or .secrets/openai-api-key)")
	}
	if model == "" {
		model = types.DefaultOpenAIModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openai.NewClient(opts...)

	return &OpenAIEmbedder{embeddings: &client.Embeddings, model: model}, nil
}

// Model returns the embedding model name.
func (e *OpenAIEmbedder) Model() string { return e.model }

func (e *OpenAIEmbedder) Embed(ctx context.Context, input string) ([]float32, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.New("embedding input is empty")
	}
	resp, err := e.embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(input)},
	})
	if err != nil {
		return nil, fmt.Errorf("requesting embedding: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response contained no vectors")
	}

	vector := resp.Data[0].Embedding
	out := make([]float32, len(vector))
	for i, v := range vector {
		out[i] = float32(v)
	}
	return out, nil
}

// StoreBackend embeds sections with an Embedder and upserts them into the
// local store, skipping sections whose content is unchanged.
type StoreBackend struct {
	Embedder Embedder
	Store    *store.Store
	Logger   logrus.FieldLogger
}

func (b *StoreBackend) Name() string { return "openai" }

func (b *StoreBackend) Embed(ctx context.Context, job Job) (Result, error) {
	log := b.Logger
	if log == nil {
		log = logging.Discard()
	}
	model := job.Model
	if m, ok := b.Embedder.(interface{ Model() string }); ok && model == "" {
		model = m.Model()
	}
	if err := b.Store.EnsureCollection(ctx, job.Collection, model); err != nil {
		return Result{}, err
	}

	var res Result
	for _, s := range job.Sections {
		id := job.Prefix + s.ID
		hash := store.ContentHash(s.Content)

		unchanged, err := b.Store.Unchanged(ctx, job.Collection, id, hash)
		if err != nil {
			return res, err
		}
		if unchanged {
			log.WithField("id", id).Debug("section unchanged")
			res.Skipped++
			continue
		}

		vector, err := b.Embedder.Embed(ctx, s.Content)
		if err != nil {
			return res, fmt.Errorf("embedding %s: %w", id, err)
		}
		if err := b.Store.Upsert(ctx, job.Collection, store.Record{
			ID:          id,
			Content:     s.Content,
			ContentHash: hash,
			Vector:      vector,
		}); err != nil {
			return res, err
		}
		res.Embedded++
	}
	return res, nil
}
