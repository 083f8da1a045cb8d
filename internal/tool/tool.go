// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool exposes the article fetcher as an LLM function-calling tool:
// a JSON schema describing its parameters and a JSON-in, text-out call.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

// Name is the tool name advertised to the model.
const Name = "wikimedia"

// Description is the tool description advertised to the model.
const Description = "Fetch a wikimedia article (in Wikimedia format)."

// Fetcher retrieves an article. *wikimedia.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req types.Request) (types.Article, error)
}

// Schema is a function-calling tool definition.
type Schema struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

// Parameters is the JSON schema of the tool arguments.
type Parameters struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Property is one argument in Parameters.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     string   `json:"default,omitempty"`
}

// Definition returns the tool schema.
func Definition() Schema {
	langs := make([]string, len(types.Langs))
	for i, l := range types.Langs {
		langs[i] = string(l)
	}
	sites := make([]string, len(types.Sites))
	for i, s := range types.Sites {
		sites[i] = string(s)
	}

	return Schema{
		Name:        Name,
		Description: Description,
		Parameters: Parameters{
			Type: "object",
			Properties: map[string]Property{
				"page": {Type: "string", Description: "Title of the page to fetch."},
				"lang": {Type: "string", Enum: langs, Default: string(types.LangEN)},
				"site": {Type: "string", Enum: sites, Default: string(types.SiteWikipedia)},
			},
			Required: []string{"page"},
		},
	}
}

// DecodeArgs parses JSON tool arguments, applying the en/wikipedia defaults.
// Unknown fields are rejected.
func DecodeArgs(r io.Reader) (types.Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Request{}, fmt.Errorf("reading tool arguments: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var req types.Request
	if err := dec.Decode(&req); err != nil {
		return types.Request{}, fmt.Errorf("%w: decoding tool arguments: %v", types.ErrInvalidRequest, err)
	}
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return types.Request{}, err
	}
	return req, nil
}

// Call decodes arguments from r, fetches the article and returns its text.
func Call(ctx context.Context, f Fetcher, r io.Reader) (string, error) {
	req, err := DecodeArgs(r)
	if err != nil {
		return "", err
	}
	article, err := f.Fetch(ctx, req)
	if err != nil {
		return "", err
	}
	return article.Text, nil
}
