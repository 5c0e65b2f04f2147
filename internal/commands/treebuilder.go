// Package commands contains the core scan logic of the cortex analyzer.
package commands

import (
	"sort"
	"strings"

	"github.com/cortexdev/cortex/internal/types"
)

const pathSegmentSeparator = "/"

// intermediateNode is the tagged construction structure used while nesting
// flat paths. A node is either a file marker or a directory holding child
// nodes keyed by segment name; the tag removes the ambiguity of using a nil
// child map for both cases.
type intermediateNode struct {
	isFile   bool
	children map[string]*intermediateNode
}

// newDirectoryNode returns an intermediate node representing a directory.
func newDirectoryNode() *intermediateNode {
	return &intermediateNode{children: make(map[string]*intermediateNode)}
}

// BuildTree converts a flat set of forward-slash relative file paths into the
// ordered nested node sequence embedded in a snapshot. The result is
// independent of input order: siblings at every level are emitted sorted
// ascending by title. When a file and a directory collide on the same segment
// name at the same depth, the directory wins and the file entry is discarded.
func BuildTree(relativePaths []string) []*types.TreeNode {
	sortedPaths := make([]string, len(relativePaths))
	copy(sortedPaths, relativePaths)
	sort.Strings(sortedPaths)

	rootNode := newDirectoryNode()
	for _, relativePath := range sortedPaths {
		insertPath(rootNode, relativePath)
	}

	return formatChildren(rootNode, "")
}

// insertPath descends the intermediate structure creating directory nodes for
// every segment but the last, then records the final segment as a file.
func insertPath(rootNode *intermediateNode, relativePath string) {
	segments := strings.Split(relativePath, pathSegmentSeparator)
	currentNode := rootNode
	for _, segmentName := range segments[:len(segments)-1] {
		childNode, childExists := currentNode.children[segmentName]
		if !childExists || childNode.isFile {
			// A file previously recorded under this name loses to the directory.
			childNode = newDirectoryNode()
			currentNode.children[segmentName] = childNode
		}
		currentNode = childNode
	}

	leafName := segments[len(segments)-1]
	if existingNode, leafExists := currentNode.children[leafName]; leafExists && !existingNode.isFile {
		return
	}
	currentNode.children[leafName] = &intermediateNode{isFile: true}
}

// formatChildren converts one intermediate directory level into the public
// node shape, sorted ascending by segment name.
func formatChildren(directoryNode *intermediateNode, parentKeyPath string) []*types.TreeNode {
	segmentNames := make([]string, 0, len(directoryNode.children))
	for segmentName := range directoryNode.children {
		segmentNames = append(segmentNames, segmentName)
	}
	sort.Strings(segmentNames)

	formattedNodes := make([]*types.TreeNode, 0, len(segmentNames))
	for _, segmentName := range segmentNames {
		childNode := directoryNode.children[segmentName]
		keyPath := segmentName
		if parentKeyPath != "" {
			keyPath = parentKeyPath + pathSegmentSeparator + segmentName
		}

		if childNode.isFile {
			formattedNodes = append(formattedNodes, &types.TreeNode{
				Key:   keyPath,
				Title: segmentName,
				Type:  types.NodeTypeFile,
			})
			continue
		}

		formattedNodes = append(formattedNodes, &types.TreeNode{
			Key:      keyPath,
			Title:    segmentName,
			Type:     types.NodeTypeFolder,
			Children: formatChildren(childNode, keyPath),
		})
	}
	return formattedNodes
}
