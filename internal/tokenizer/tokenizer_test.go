package tokenizer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexdev/cortex/internal/tokenizer"
)

// runeCounter is a deterministic Counter double that needs no encoding data.
type runeCounter struct{}

func (runeCounter) Name() string { return "rune" }

func (runeCounter) CountString(input string) (int, error) {
	return len([]rune(input)), nil
}

// failingCounter fails on a specific path's content.
type failingCounter struct {
	failOn string
}

func (failingCounter) Name() string { return "failing" }

func (counter failingCounter) CountString(input string) (int, error) {
	if input == counter.failOn {
		return 0, errors.New("unsupported content")
	}
	return 1, nil
}

func TestCountContentsSumsAllFiles(testingInstance *testing.T) {
	totalTokens, countError := tokenizer.CountContents(runeCounter{}, map[string]string{
		"a.txt": "abc",
		"b.txt": "de",
	})
	require.NoError(testingInstance, countError)
	assert.Equal(testingInstance, 5, totalTokens)
}

func TestCountContentsEmptyMapping(testingInstance *testing.T) {
	totalTokens, countError := tokenizer.CountContents(runeCounter{}, nil)
	require.NoError(testingInstance, countError)
	assert.Equal(testingInstance, 0, totalTokens)
}

func TestCountContentsReportsFailingPath(testingInstance *testing.T) {
	_, countError := tokenizer.CountContents(failingCounter{failOn: "boom"}, map[string]string{
		"ok.txt":  "fine",
		"bad.txt": "boom",
	})
	require.Error(testingInstance, countError)
	assert.Contains(testingInstance, countError.Error(), "bad.txt")
}

func TestCountContentsNilCounter(testingInstance *testing.T) {
	_, countError := tokenizer.CountContents(nil, map[string]string{"a": "b"})
	assert.Error(testingInstance, countError)
}
