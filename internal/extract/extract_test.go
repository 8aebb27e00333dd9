// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/franmgl2001/case-highlighter/internal/httputil"
	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// --- mock backends ---

type mockAIBackend struct {
	responses map[int][]types.Highlight // page → highlights
	errs      map[int]error             // page → forced error
	calls     int
}

func (m *mockAIBackend) ExtractPage(_ context.Context, page int, _ string) ([]types.Highlight, error) {
	m.calls++
	if err := m.errs[page]; err != nil {
		return nil, err
	}
	return m.responses[page], nil
}

// failNTimesBackend fails the first N calls, then succeeds.
type failNTimesBackend struct {
	failures  int
	callCount int
	response  []types.Highlight
}

func (f *failNTimesBackend) ExtractPage(_ context.Context, _ int, _ string) ([]types.Highlight, error) {
	f.callCount++
	if f.callCount <= f.failures {
		return nil, fmt.Errorf("transient error (call %d)", f.callCount)
	}
	return f.response, nil
}

func TestMain(m *testing.M) {
	// Override backoffs to avoid real sleeps in retry tests.
	backoffBase = time.Millisecond
	httputil.RetryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

// --- ExtractAll ---

func TestExtractAllSkipsBlankPages(t *testing.T) {
	backend := &mockAIBackend{
		responses: map[int][]types.Highlight{
			1: {{Quote: "the key finding", Label: "Insight"}},
		},
	}
	pages := []PageText{
		{Page: 1, Text: "the key finding is here"},
		{Page: 2, Text: "   \n\t  "},
	}

	hs, summary, err := ExtractAll(context.Background(), backend, pages, types.ExtractionConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1 (blank page must be skipped)", backend.calls)
	}
	if summary.Skipped != 1 || summary.Pages != 1 || summary.Highlights != 1 {
		t.Errorf("summary = %+v, want 1 skipped, 1 page, 1 highlight", summary)
	}
	if len(hs) != 1 || hs[0].Quote != "the key finding" {
		t.Fatalf("highlights = %+v", hs)
	}
}

func TestExtractAllForcesPageAndDropsEmptyQuotes(t *testing.T) {
	backend := &mockAIBackend{
		responses: map[int][]types.Highlight{
			3: {
				{Page: 99, Quote: "a real quote", Label: "Problem"},
				{Page: 3, Quote: "   "},
			},
		},
	}
	pages := []PageText{{Page: 3, Text: "a real quote lives here"}}

	hs, _, err := ExtractAll(context.Background(), backend, pages, types.ExtractionConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	want := []types.Highlight{{Page: 3, Quote: "a real quote", Label: "Problem"}}
	if !reflect.DeepEqual(hs, want) {
		t.Errorf("highlights = %+v, want %+v", hs, want)
	}
}

func TestExtractAllCapsPerPage(t *testing.T) {
	var many []types.Highlight
	for i := 0; i < 10; i++ {
		many = append(many, types.Highlight{Quote: fmt.Sprintf("quote %d", i)})
	}
	backend := &mockAIBackend{responses: map[int][]types.Highlight{1: many}}

	hs, _, err := ExtractAll(context.Background(), backend,
		[]PageText{{Page: 1, Text: "text"}}, types.ExtractionConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if len(hs) != 7 {
		t.Errorf("got %d highlights, want default per-page cap of 7", len(hs))
	}
	if hs[0].Quote != "quote 0" || hs[6].Quote != "quote 6" {
		t.Errorf("cap must keep the first records, got %+v", hs)
	}
}

func TestExtractAllMaxTotal(t *testing.T) {
	backend := &mockAIBackend{
		responses: map[int][]types.Highlight{
			1: {{Quote: "one"}, {Quote: "two"}},
			2: {{Quote: "three"}, {Quote: "four"}},
		},
	}
	pages := []PageText{{Page: 1, Text: "a"}, {Page: 2, Text: "b"}}
	cfg := types.ExtractionConfig{MaxTotal: 3}

	hs, summary, err := ExtractAll(context.Background(), backend, pages, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if len(hs) != 3 || summary.Highlights != 3 {
		t.Fatalf("got %d highlights (summary %+v), want 3", len(hs), summary)
	}
	if hs[2].Quote != "three" {
		t.Errorf("truncation must be positional, got %+v", hs)
	}
}

func TestExtractAllRetriesTransientErrors(t *testing.T) {
	backend := &failNTimesBackend{
		failures: 2,
		response: []types.Highlight{{Quote: "finally"}},
	}

	hs, summary, err := ExtractAll(context.Background(), backend,
		[]PageText{{Page: 1, Text: "text"}}, types.ExtractionConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if backend.callCount != 3 {
		t.Errorf("backend calls = %d, want 3", backend.callCount)
	}
	if len(hs) != 1 || summary.Failed != 0 {
		t.Errorf("highlights = %+v, summary = %+v", hs, summary)
	}
}

func TestExtractAllFailedPageDoesNotAbort(t *testing.T) {
	backend := &mockAIBackend{
		responses: map[int][]types.Highlight{2: {{Quote: "survives"}}},
		errs:      map[int]error{1: fmt.Errorf("model unavailable")},
	}
	pages := []PageText{{Page: 1, Text: "a"}, {Page: 2, Text: "b"}}
	cfg := types.ExtractionConfig{AIConfig: types.AIConfig{MaxRetries: 1}}

	var buf bytes.Buffer
	hs, summary, err := ExtractAll(context.Background(), backend, pages, cfg, &buf)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if summary.Failed != 1 || summary.Pages != 1 {
		t.Errorf("summary = %+v, want 1 failed, 1 succeeded", summary)
	}
	if len(hs) != 1 || hs[0].Quote != "survives" {
		t.Errorf("highlights = %+v", hs)
	}
	if !strings.Contains(buf.String(), "page 1: extraction failed") {
		t.Errorf("status output missing failure line: %q", buf.String())
	}
}

// --- OpenAIBackend ---

func completionsHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %q, want json_object", req.ResponseFormat.Type)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v, want system then user", req.Messages)
		}

		json.NewEncoder(w).Encode(openaiResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Role: "assistant", Content: content}}},
		})
	}
}

func TestOpenAIBackendExtractPage(t *testing.T) {
	content := `{"highlights":[{"page":4,"quote":"net revenue grew 12 percent","label":"Numbers"}]}`
	ts := httptest.NewServer(completionsHandler(t, content))
	defer ts.Close()

	backend := &OpenAIBackend{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: ts.URL,
		Client:  ts.Client(),
	}

	hs, err := backend.ExtractPage(context.Background(), 4, "net revenue grew 12 percent this year")
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}

	want := []types.Highlight{{Page: 4, Quote: "net revenue grew 12 percent", Label: "Numbers"}}
	if !reflect.DeepEqual(hs, want) {
		t.Errorf("highlights = %+v, want %+v", hs, want)
	}
}

func TestOpenAIBackendMalformedJSONYieldsEmptyPage(t *testing.T) {
	ts := httptest.NewServer(completionsHandler(t, "sorry, I cannot do that"))
	defer ts.Close()

	backend := &OpenAIBackend{APIKey: "test-key", BaseURL: ts.URL, Client: ts.Client()}

	hs, err := backend.ExtractPage(context.Background(), 1, "some text")
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(hs) != 0 {
		t.Errorf("highlights = %+v, want none", hs)
	}
}

func TestOpenAIBackendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid model"}}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	backend := &OpenAIBackend{APIKey: "test-key", BaseURL: ts.URL, Client: ts.Client()}

	_, err := backend.ExtractPage(context.Background(), 1, "some text")
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("err = %v, want API status error", err)
	}
}

func TestRenderPromptIncludesPageAndText(t *testing.T) {
	prompt, err := renderPrompt(7, "the page body")
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	if !strings.Contains(prompt, "Page: 7") || !strings.Contains(prompt, "the page body") {
		t.Errorf("prompt missing page fields:\n%s", prompt)
	}
}
