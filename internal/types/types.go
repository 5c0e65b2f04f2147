// Package types defines the cross-package data structures of the cortex analyzer.
package types

const (
	// SnapshotVersion tags the snapshot format understood by the CortexDev web interface.
	SnapshotVersion = "1.2.0"

	// DefaultOutputFileName is the snapshot file written into the scan root.
	DefaultOutputFileName = "cortex-snapshot.json"

	// NodeTypeFile marks a tree node that represents a regular file.
	NodeTypeFile = "file"
	// NodeTypeFolder marks a tree node that represents a directory.
	NodeTypeFolder = "folder"
)

// TreeNode is one entry of the hierarchical file tree embedded in a snapshot.
// Key holds the node's full forward-slash path from the scan root and Title
// its final path segment. Children is populated for folder nodes only, and
// siblings are sorted ascending by Title at every level.
type TreeNode struct {
	Key      string      `json:"key"`
	Title    string      `json:"title"`
	Type     string      `json:"type"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Snapshot is the single document produced by one scan. Tree holds the
// root-level siblings and Files maps every text-classified relative path to
// its decoded content. A snapshot is assembled once and never mutated.
type Snapshot struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"createdAt"`
	Tree      []*TreeNode       `json:"tree"`
	Files     map[string]string `json:"files"`
}
