package output_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexdev/cortex/internal/commands"
	"github.com/cortexdev/cortex/internal/output"
	"github.com/cortexdev/cortex/internal/types"
)

func sampleSnapshot(createdAt time.Time) *types.Snapshot {
	fileTree := commands.BuildTree([]string{"b.txt", "a/c.txt"})
	return output.BuildSnapshot(fileTree, map[string]string{
		"b.txt":   "beta",
		"a/c.txt": "<html> & more",
	}, createdAt)
}

func TestBuildSnapshotFields(testingInstance *testing.T) {
	createdAt := time.Date(2026, 8, 24, 10, 30, 0, 123456000, time.UTC)
	snapshot := sampleSnapshot(createdAt)

	assert.Equal(testingInstance, types.SnapshotVersion, snapshot.Version)
	assert.Equal(testingInstance, "2026-08-24T10:30:00.123456+00:00", snapshot.CreatedAt)
	assert.Len(testingInstance, snapshot.Tree, 2)
	assert.Len(testingInstance, snapshot.Files, 2)
}

func TestEncodeSnapshotPreservesSourceBytes(testingInstance *testing.T) {
	snapshot := sampleSnapshot(time.Now())
	encodedSnapshot, encodeError := output.EncodeSnapshot(snapshot)
	require.NoError(testingInstance, encodeError)

	// HTML escaping is disabled so markup in captured files survives as-is.
	assert.Contains(testingInstance, string(encodedSnapshot), "<html> & more")

	var decoded types.Snapshot
	require.NoError(testingInstance, json.Unmarshal(encodedSnapshot, &decoded))
	assert.Equal(testingInstance, snapshot.Files, decoded.Files)
	assert.Equal(testingInstance, snapshot.Tree, decoded.Tree)
}

func TestEncodeSnapshotSerializedShape(testingInstance *testing.T) {
	snapshot := sampleSnapshot(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	encodedSnapshot, encodeError := output.EncodeSnapshot(snapshot)
	require.NoError(testingInstance, encodeError)

	var document map[string]json.RawMessage
	require.NoError(testingInstance, json.Unmarshal(encodedSnapshot, &document))
	for _, requiredField := range []string{"version", "createdAt", "tree", "files"} {
		assert.Contains(testingInstance, document, requiredField)
	}

	var treeNodes []map[string]json.RawMessage
	require.NoError(testingInstance, json.Unmarshal(document["tree"], &treeNodes))
	require.Len(testingInstance, treeNodes, 2)
	// File nodes carry no children field at all.
	assert.NotContains(testingInstance, treeNodes[1], "children")
	assert.Contains(testingInstance, treeNodes[0], "children")
}

func TestWriteSnapshotWritesAtomically(testingInstance *testing.T) {
	outputDirectory := testingInstance.TempDir()
	outputPath := filepath.Join(outputDirectory, types.DefaultOutputFileName)

	writeResult, writeError := output.WriteSnapshot(outputPath, sampleSnapshot(time.Now()))
	require.NoError(testingInstance, writeError)
	assert.Equal(testingInstance, outputPath, writeResult.Path)
	assert.Greater(testingInstance, writeResult.SizeBytes, int64(0))

	writtenBytes, readError := os.ReadFile(outputPath)
	require.NoError(testingInstance, readError)
	assert.Equal(testingInstance, writeResult.SizeBytes, int64(len(writtenBytes)))

	directoryEntries, readDirError := os.ReadDir(outputDirectory)
	require.NoError(testingInstance, readDirError)
	for _, directoryEntry := range directoryEntries {
		assert.False(testingInstance, strings.HasSuffix(directoryEntry.Name(), ".tmp"),
			"no staging file may remain after a successful write")
	}
}

func TestWriteSnapshotFailsOnMissingDirectory(testingInstance *testing.T) {
	missingDirectory := filepath.Join(testingInstance.TempDir(), "absent")
	_, writeError := output.WriteSnapshot(filepath.Join(missingDirectory, "snap.json"), sampleSnapshot(time.Now()))
	assert.Error(testingInstance, writeError)
}

func TestContentDigestIgnoresCreationTime(testingInstance *testing.T) {
	firstSnapshot := sampleSnapshot(time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))
	secondSnapshot := sampleSnapshot(time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC))
	require.NotEqual(testingInstance, firstSnapshot.CreatedAt, secondSnapshot.CreatedAt)

	firstDigest, firstError := output.ContentDigest(firstSnapshot)
	require.NoError(testingInstance, firstError)
	secondDigest, secondError := output.ContentDigest(secondSnapshot)
	require.NoError(testingInstance, secondError)
	assert.Equal(testingInstance, firstDigest, secondDigest)

	changedSnapshot := sampleSnapshot(time.Now())
	changedSnapshot.Files["b.txt"] = "changed"
	changedDigest, changedError := output.ContentDigest(changedSnapshot)
	require.NoError(testingInstance, changedError)
	assert.NotEqual(testingInstance, firstDigest, changedDigest)
}
