package api

import "github.com/samcharles93/ngram/internal/ngram"

// Input selects the token history for predict and generate. Exactly one of
// Prompt and Tokens may be set. A prompt is tokenized on whitespace and, by
// default, prefixed with the start sentinel; explicit tokens are used as
// given unless AddStart is true.
type Input struct {
	Model    string   `json:"model,omitempty"`
	Prompt   *string  `json:"prompt,omitempty"`
	Tokens   []string `json:"tokens,omitempty"`
	AddStart *bool    `json:"add_start,omitempty"`
}

type PredictRequest struct {
	Input
	// TopCandidates limits how many ranked candidates are echoed back. Zero
	// returns none.
	TopCandidates int `json:"top_candidates,omitempty"`
}

type PredictResponse struct {
	ID         string            `json:"id"`
	Object     string            `json:"object"`
	Created    int64             `json:"created"`
	Model      string            `json:"model"`
	Token      string            `json:"token"`
	Context    []string          `json:"context"`
	Matched    []string          `json:"matched_context"`
	Candidates []ngram.Candidate `json:"candidates,omitempty"`
}

type GenerateRequest struct {
	Input
	MaxTokens *int `json:"max_tokens,omitempty"`
}

type GenerateResponse struct {
	ID           string   `json:"id"`
	Object       string   `json:"object"`
	Created      int64    `json:"created"`
	Model        string   `json:"model"`
	Tokens       []string `json:"tokens"`
	Text         string   `json:"text"`
	FinishReason string   `json:"finish_reason"`
	Usage        Usage    `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type TrainRequest struct {
	Model string   `json:"model,omitempty"`
	Lines []string `json:"lines"`
}

type TrainResponse struct {
	Object    string      `json:"object"`
	Model     string      `json:"model"`
	Sequences int         `json:"sequences"`
	Skipped   int         `json:"skipped"`
	Stats     ngram.Stats `json:"stats"`
}

type ModelRequest struct {
	Model string `json:"model,omitempty"`
}

type ModelResponse struct {
	Object string       `json:"object"`
	Model  string       `json:"model"`
	Path   string       `json:"path"`
	Config ngram.Config `json:"config"`
	Stats  ngram.Stats  `json:"stats"`
}

type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

type ModelInfo struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
