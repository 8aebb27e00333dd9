// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "case-highlighter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI
// API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint. Empty means the default
	// OpenAI endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResolverConfig holds the tunables of the quote-to-region resolution
// cascade. Zero values select the defaults, which match the observed
// behavior of the matching heuristics and should not be changed
// without evidence.
type ResolverConfig struct {
	// MinWindowWords is the minimum word count for the windowed-chunk
	// stage; shorter quotes skip it (default 6).
	MinWindowWords int `json:"min_window_words" yaml:"min_window_words"`

	// WindowSize is the maximum words per search window (default 10).
	WindowSize int `json:"window_size" yaml:"window_size"`

	// WindowStepDivisor divides the window size to obtain the slide
	// step (default 2).
	WindowStepDivisor int `json:"window_step_divisor" yaml:"window_step_divisor"`

	// WindowStepFloor is the minimum slide step in words (default 3).
	WindowStepFloor int `json:"window_step_floor" yaml:"window_step_floor"`

	// FuzzyThreshold is the minimum partial-ratio score (0-100) for
	// the fuzzy line fallback to accept a line (default 85).
	FuzzyThreshold int `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`
}

// ExtractionConfig holds settings for the LLM highlight-extraction
// stage.
type ExtractionConfig struct {
	AIConfig `yaml:",inline"`

	// MaxPerPage caps the highlights kept per page (default 7).
	MaxPerPage int `json:"max_per_page" yaml:"max_per_page"`

	// MaxTotal caps the highlights kept across all pages; 0 means no
	// cap.
	MaxTotal int `json:"max_total" yaml:"max_total"`
}

// HighlightConfig holds settings for the annotation stage.
type HighlightConfig struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`

	// OutputSuffix is appended to the input filename when no explicit
	// output path is given (default "_highlighted").
	OutputSuffix string `json:"output_suffix" yaml:"output_suffix"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// DBPath is the SQLite database file for recorded runs. Empty
	// disables history.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	HTTP       HTTPConfig       `json:"http" yaml:"http"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Highlight  HighlightConfig  `json:"highlight" yaml:"highlight"`
	History    HistoryConfig    `json:"history" yaml:"history"`
}
