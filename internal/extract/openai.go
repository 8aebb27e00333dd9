// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/franmgl2001/case-highlighter/internal/httputil"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// systemPrompt pins the model to verbatim extraction. Paraphrases
// cannot be located on the page and would fail resolution.
const systemPrompt = `You extract ONLY verbatim quotes from the provided page text.
Return JSON. No paraphrases. Your job is to identify the most important phrases that should be highlighted.`

// userPromptTmpl is the per-page prompt sent to the chat completions
// API.
var userPromptTmpl = template.Must(template.New("extraction").Parse(`Goal: highlight the most important phrases for case understanding.

Rules:
- Choose 3-7 quotes from this page only.
- Each quote must be copied EXACTLY from the page text (verbatim, no changes).
- 6-25 words per quote (1 sentence max).
- Include page number in each highlight.
- Add a label tag: Problem, Constraint, Numbers, Decision, Risk, Insight, or other relevant category.
- Output JSON: {"highlights":[{"page":<page>, "quote":"...", "label":"..."}]}

Page: {{.Page}}
Text:
{{.Text}}
`))

// openaiAPIURL is the chat completions endpoint. Package-level var for
// test substitution; AIConfig.BaseURL overrides it per backend.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls an OpenAI-compatible chat completions API to
// extract highlights from one page of text.
type OpenAIBackend struct {
	APIKey     string
	Model      string
	BaseURL    string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// openaiRequest is the request body for the chat completions API.
type openaiRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	ResponseFormat responseFormat  `json:"response_format"`
	Temperature    float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// openaiResponse is the response body from the chat completions API.
type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

// ExtractPage sends one page of text to the model and parses the JSON
// highlight list out of the reply. A reply that is not valid JSON
// yields an empty page rather than an error; the model occasionally
// garbles a page and the batch must carry on.
func (b *OpenAIBackend) ExtractPage(ctx context.Context, page int, text string) ([]types.Highlight, error) {
	prompt, err := renderPrompt(page, text)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := openaiRequest{
		Model: b.Model,
		Messages: []openaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		// Low temperature keeps the quotes verbatim.
		Temperature: 0.3,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := b.BaseURL
	if url == "" {
		url = openaiAPIURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("calling chat completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat completions API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return nil, fmt.Errorf("decoding API response: %w", err)
	}
	if len(oResp.Choices) == 0 {
		return nil, fmt.Errorf("chat completions API returned no choices")
	}

	var file types.HighlightFile
	if err := json.Unmarshal([]byte(oResp.Choices[0].Message.Content), &file); err != nil {
		return nil, nil
	}
	return file.Highlights, nil
}

// renderPrompt executes the extraction prompt template for one page.
func renderPrompt(page int, text string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Page int
		Text string
	}{Page: page, Text: text}
	if err := userPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
