package api

import (
	"context"
	"fmt"
	"time"

	"github.com/samcharles93/ngram/internal/corpus"
	"github.com/samcharles93/ngram/internal/ngram"
	"github.com/samcharles93/ngram/internal/tokenizer"
)

const (
	defaultMaxTokens = 32
	maxMaxTokens     = 4096
	maxCandidates    = 100
)

type Service struct {
	provider ModelProvider
	clock    func() time.Time
}

func NewService(provider ModelProvider) *Service {
	return &Service{
		provider: provider,
		clock:    time.Now,
	}
}

func (s *Service) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req.TopCandidates < 0 || req.TopCandidates > maxCandidates {
		return nil, newInvalidRequest(fmt.Sprintf("top_candidates must be between 0 and %d", maxCandidates))
	}
	history, err := historyTokens(req.Input)
	if err != nil {
		return nil, err
	}

	var resp *PredictResponse
	err = s.provider.WithModel(ctx, req.Model, false, func(h ModelHandle) error {
		m := h.Model
		resp = &PredictResponse{
			ID:      newID("pred"),
			Object:  "prediction",
			Created: s.clock().Unix(),
			Model:   h.Name,
			Token:   m.Predict(history),
			Context: history,
			Matched: []string{},
		}
		if match, ok := m.Resolve(history); ok {
			resp.Matched = match.Context
		}
		if req.TopCandidates > 0 {
			ranked := m.Rank(history)
			resp.Candidates = ranked[:min(len(ranked), req.TopCandidates)]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	maxTokens := defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	if maxTokens < 0 || maxTokens > maxMaxTokens {
		return nil, newInvalidRequest(fmt.Sprintf("max_tokens must be between 0 and %d", maxMaxTokens))
	}
	history, err := historyTokens(req.Input)
	if err != nil {
		return nil, err
	}

	var resp *GenerateResponse
	err = s.provider.WithModel(ctx, req.Model, false, func(h ModelHandle) error {
		out := h.Model.Generate(history, maxTokens)
		generated := out[len(history):]
		finish := "length"
		if n := len(generated); n > 0 && generated[n-1] == tokenizer.End {
			finish = "stop"
		}
		resp = &GenerateResponse{
			ID:           newID("gen"),
			Object:       "generation",
			Created:      s.clock().Unix(),
			Model:        h.Name,
			Tokens:       generated,
			Text:         tokenizer.Detokenize(out),
			FinishReason: finish,
			Usage: Usage{
				PromptTokens:     len(history),
				CompletionTokens: len(generated),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) Train(ctx context.Context, req *TrainRequest) (*TrainResponse, error) {
	if len(req.Lines) == 0 {
		return nil, newInvalidRequest("lines must not be empty")
	}
	var resp *TrainResponse
	err := s.provider.WithModel(ctx, req.Model, true, func(h ModelHandle) error {
		seqs, skipped := corpus.Prepare(req.Lines, h.Model.Config().Window())
		if err := h.Model.Train(seqs); err != nil {
			return err
		}
		resp = &TrainResponse{
			Object:    "training",
			Model:     h.Name,
			Sequences: len(seqs),
			Skipped:   skipped,
			Stats:     h.Model.Stats(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) Reset(ctx context.Context, req *ModelRequest) (*ModelResponse, error) {
	return s.describe(ctx, req.Model, true, func(m *ngram.Model, _ string) error {
		m.Reset()
		return nil
	})
}

func (s *Service) Save(ctx context.Context, req *ModelRequest) (*ModelResponse, error) {
	return s.describe(ctx, req.Model, false, func(m *ngram.Model, path string) error {
		return m.SaveFile(path)
	})
}

func (s *Service) Stats(ctx context.Context, name string) (*ModelResponse, error) {
	return s.describe(ctx, name, false, nil)
}

func (s *Service) ListModels() (*ModelList, error) {
	names, err := s.provider.ListModels()
	if err != nil {
		return nil, err
	}
	list := &ModelList{Object: "list", Data: make([]ModelInfo, 0, len(names))}
	for _, name := range names {
		list.Data = append(list.Data, ModelInfo{ID: name, Object: "model"})
	}
	return list, nil
}

// describe runs fn against the model and reports its state afterwards.
func (s *Service) describe(ctx context.Context, name string, write bool, fn func(m *ngram.Model, path string) error) (*ModelResponse, error) {
	var resp *ModelResponse
	err := s.provider.WithModel(ctx, name, write, func(h ModelHandle) error {
		if fn != nil {
			if err := fn(h.Model, h.Path); err != nil {
				return err
			}
		}
		resp = &ModelResponse{
			Object: "model",
			Model:  h.Name,
			Path:   h.Path,
			Config: h.Model.Config(),
			Stats:  h.Model.Stats(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// historyTokens builds the token history a request predicts from.
func historyTokens(in Input) ([]string, error) {
	if in.Prompt != nil && in.Tokens != nil {
		return nil, newInvalidRequest("prompt and tokens are mutually exclusive")
	}
	if in.Tokens != nil {
		tokens := append([]string(nil), in.Tokens...)
		if in.AddStart != nil && *in.AddStart {
			tokens = tokenizer.AddStart(tokens)
		}
		return tokens, nil
	}

	var tokens []string
	if in.Prompt != nil {
		tokens = tokenizer.Tokenize(*in.Prompt)
	}
	if in.AddStart == nil || *in.AddStart {
		tokens = tokenizer.AddStart(tokens)
	}
	if tokens == nil {
		tokens = []string{}
	}
	return tokens, nil
}
