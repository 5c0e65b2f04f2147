// Package tokenizer estimates token counts for captured text content.
package tokenizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model, falling back to the
// default encoding when the model is unknown to tiktoken. The second return
// value names the encoding or model actually in effect.
func NewCounter(configuration Config) (Counter, string, error) {
	modelName := strings.TrimSpace(configuration.Model)
	if modelName == "" {
		modelName = defaultModel
	}
	lowerModelName := strings.ToLower(modelName)

	encoding, encodingError := tiktoken.EncodingForModel(lowerModelName)
	if encodingError == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: lowerModelName}, lowerModelName, nil
	}

	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return tiktokenCounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName, nil
}

// tiktokenCounter counts tokens using a tiktoken byte-pair encoding.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// Name returns the encoding or model name backing the counter.
func (counter tiktokenCounter) Name() string {
	return counter.name
}

// CountString returns the token count of input.
func (counter tiktokenCounter) CountString(input string) (int, error) {
	return len(counter.encoding.Encode(input, nil, nil)), nil
}

// CountContents sums the token estimate across every captured file. Paths are
// visited in sorted order so partial failures are reported deterministically.
func CountContents(counter Counter, textContents map[string]string) (int, error) {
	if counter == nil {
		return 0, fmt.Errorf("nil tokenizer counter")
	}
	relativePaths := make([]string, 0, len(textContents))
	for relativePath := range textContents {
		relativePaths = append(relativePaths, relativePath)
	}
	sort.Strings(relativePaths)

	totalTokens := 0
	for _, relativePath := range relativePaths {
		fileTokens, countError := counter.CountString(textContents[relativePath])
		if countError != nil {
			return 0, fmt.Errorf("counting tokens for %s: %w", relativePath, countError)
		}
		totalTokens += fileTokens
	}
	return totalTokens, nil
}
