// Package output assembles snapshot documents and writes them to durable storage.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/cortexdev/cortex/internal/types"
)

// createdAtLayout renders an ISO-8601 UTC timestamp with a numeric offset,
// matching what the CortexDev web interface parses.
const createdAtLayout = "2006-01-02T15:04:05.999999-07:00"

// temporaryFileSuffix marks the staging file used for the atomic write.
const temporaryFileSuffix = ".tmp"

const (
	// errorEncodeSnapshotFormat reports serialization failures.
	errorEncodeSnapshotFormat = "encoding snapshot: %w"
	// errorWriteSnapshotFormat reports staging-file write failures.
	errorWriteSnapshotFormat = "writing snapshot to %s: %w"
	// errorRenameSnapshotFormat reports failures promoting the staging file.
	errorRenameSnapshotFormat = "moving snapshot into place at %s: %w"
)

// BuildSnapshot assembles the immutable snapshot document from the tree, the
// text-content mapping, and the creation instant.
func BuildSnapshot(tree []*types.TreeNode, textContents map[string]string, createdAt time.Time) *types.Snapshot {
	return &types.Snapshot{
		Version:   types.SnapshotVersion,
		CreatedAt: createdAt.UTC().Format(createdAtLayout),
		Tree:      tree,
		Files:     textContents,
	}
}

// EncodeSnapshot serializes the document as compact JSON. HTML escaping is
// disabled so captured source code survives byte for byte.
func EncodeSnapshot(snapshot *types.Snapshot) ([]byte, error) {
	var encodedBuffer bytes.Buffer
	jsonEncoder := json.NewEncoder(&encodedBuffer)
	jsonEncoder.SetEscapeHTML(false)
	if encodeError := jsonEncoder.Encode(snapshot); encodeError != nil {
		return nil, fmt.Errorf(errorEncodeSnapshotFormat, encodeError)
	}
	return encodedBuffer.Bytes(), nil
}

// WriteResult describes a snapshot that reached disk.
type WriteResult struct {
	Path      string
	SizeBytes int64
	Digest    uint64
}

// ContentDigest returns an xxh3 hash over the snapshot with its creation
// timestamp cleared. Two scans of an unchanged project produce the same
// digest even though their createdAt values differ.
func ContentDigest(snapshot *types.Snapshot) (uint64, error) {
	timeless := *snapshot
	timeless.CreatedAt = ""
	encodedTimeless, encodeError := EncodeSnapshot(&timeless)
	if encodeError != nil {
		return 0, encodeError
	}
	return xxh3.Hash(encodedTimeless), nil
}

// WriteSnapshot serializes the document and writes it to outputPath through a
// staging file plus rename, so a partially written snapshot is never observed
// under the final name.
func WriteSnapshot(outputPath string, snapshot *types.Snapshot) (WriteResult, error) {
	encodedSnapshot, encodeError := EncodeSnapshot(snapshot)
	if encodeError != nil {
		return WriteResult{}, encodeError
	}
	snapshotDigest, digestError := ContentDigest(snapshot)
	if digestError != nil {
		return WriteResult{}, digestError
	}

	temporaryPath := outputPath + temporaryFileSuffix
	if writeError := os.WriteFile(temporaryPath, encodedSnapshot, 0o644); writeError != nil {
		return WriteResult{}, fmt.Errorf(errorWriteSnapshotFormat, temporaryPath, writeError)
	}
	if renameError := os.Rename(temporaryPath, outputPath); renameError != nil {
		_ = os.Remove(temporaryPath)
		return WriteResult{}, fmt.Errorf(errorRenameSnapshotFormat, outputPath, renameError)
	}

	return WriteResult{
		Path:      filepath.Clean(outputPath),
		SizeBytes: int64(len(encodedSnapshot)),
		Digest:    snapshotDigest,
	}, nil
}
