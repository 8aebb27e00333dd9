// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/franmgl2001/case-highlighter/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "case-highlighter/0.1"
	defaultModel     = "gpt-4o-mini"
)

// pipelineConfig assembles the stage configurations from the config
// file. Flags override individual fields at the command sites; zero
// values select the built-in defaults.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		HTTP: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		Extraction: types.ExtractionConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("extraction.model"),
				APIKey:     viper.GetString("extraction.api_key"),
				BaseURL:    viper.GetString("extraction.base_url"),
				MaxRetries: viper.GetInt("extraction.max_retries"),
			},
			MaxPerPage: viper.GetInt("extraction.max_per_page"),
			MaxTotal:   viper.GetInt("extraction.max_total"),
		},
		Highlight: types.HighlightConfig{
			Resolver: types.ResolverConfig{
				MinWindowWords:    viper.GetInt("highlight.resolver.min_window_words"),
				WindowSize:        viper.GetInt("highlight.resolver.window_size"),
				WindowStepDivisor: viper.GetInt("highlight.resolver.window_step_divisor"),
				WindowStepFloor:   viper.GetInt("highlight.resolver.window_step_floor"),
				FuzzyThreshold:    viper.GetInt("highlight.resolver.fuzzy_threshold"),
			},
			OutputSuffix: viper.GetString("highlight.output_suffix"),
		},
		History: types.HistoryConfig{
			DBPath: viper.GetString("history.db_path"),
		},
	}
}
