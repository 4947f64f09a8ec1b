package agent

import (
	"context"
	"fmt"
	llmctx "llm_steps/context"
	"llm_steps/model"
	"llm_steps/prompts"

	"github.com/rs/zerolog/log"
)

const DefaultTopK = 3

// Retriever returns the k chunks most similar to query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]model.Document, error)
}

// RagAgent answers one question from retrieved PDF chunks in a single
// completion.
type RagAgent struct {
	BaseAgent
	retriever Retriever
	topK      int
}

func NewRagAgent(base BaseAgent, retriever Retriever, topK int) *RagAgent {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RagAgent{
		BaseAgent: base,
		retriever: retriever,
		topK:      topK,
	}
}

func (agent *RagAgent) Ask(ctx context.Context, query string) (string, []model.Document, error) {
	docs, err := agent.retriever.Retrieve(ctx, query, agent.topK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieve: %w", err)
	}
	rendered, err := llmctx.RenderDocs(docs)
	if err != nil {
		return "", nil, err
	}
	t, closeFn, err := agent.newTranscript(prompts.RagSystemPrompt(rendered), query)
	if err != nil {
		return "", nil, err
	}
	defer closeFn()

	answer, err := agent.complete(ctx, t)
	if err != nil {
		return "", docs, err
	}
	if err := t.Append(model.RoleAssistant, answer); err != nil {
		return "", docs, err
	}
	log.Info().Int("docs", len(docs)).Msg("rag answer success")
	agent.printf("%s\n", answer)
	return answer, docs, nil
}
