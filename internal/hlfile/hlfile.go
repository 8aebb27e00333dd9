// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hlfile reads and writes highlight request files. Both JSON
// and YAML encodings are supported, selected by file extension; the
// two share the same shape, a top-level "highlights" list.
package hlfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// Read loads a highlight file from disk. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func Read(path string) ([]types.Highlight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading highlight file: %w", err)
	}

	var hf types.HighlightFile
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &hf); err != nil {
			return nil, fmt.Errorf("parsing highlight file: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &hf); err != nil {
			return nil, fmt.Errorf("parsing highlight file: %w", err)
		}
	}
	return hf.Highlights, nil
}

// Write saves highlights to disk, encoded per the path's extension.
func Write(path string, highlights []types.Highlight) error {
	hf := types.HighlightFile{Highlights: highlights}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(&hf)
	} else {
		data, err = json.MarshalIndent(&hf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling highlight file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
