package commands_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexdev/cortex/internal/commands"
	"github.com/cortexdev/cortex/internal/types"
)

func TestBuildTreeNestsAndSortsSiblings(testingInstance *testing.T) {
	builtTree := commands.BuildTree([]string{"b.txt", "a/c.txt"})

	expectedTree := []*types.TreeNode{
		{
			Key:   "a",
			Title: "a",
			Type:  types.NodeTypeFolder,
			Children: []*types.TreeNode{
				{Key: "a/c.txt", Title: "c.txt", Type: types.NodeTypeFile},
			},
		},
		{Key: "b.txt", Title: "b.txt", Type: types.NodeTypeFile},
	}
	assert.Equal(testingInstance, expectedTree, builtTree)
}

func TestBuildTreeEmptyInput(testingInstance *testing.T) {
	assert.Empty(testingInstance, commands.BuildTree(nil))
	assert.Empty(testingInstance, commands.BuildTree([]string{}))
}

func TestBuildTreeIsOrderIndependent(testingInstance *testing.T) {
	relativePaths := []string{
		"src/main.go",
		"src/util/helpers.go",
		"src/util/helpers_test.go",
		"README.md",
		"docs/guide/intro.md",
		"docs/guide/setup.md",
		"docs/index.md",
		"z.txt",
	}

	referenceTree := commands.BuildTree(relativePaths)
	randomSource := rand.New(rand.NewSource(42))
	for shuffleRound := 0; shuffleRound < 10; shuffleRound++ {
		shuffledPaths := make([]string, len(relativePaths))
		copy(shuffledPaths, relativePaths)
		randomSource.Shuffle(len(shuffledPaths), func(left, right int) {
			shuffledPaths[left], shuffledPaths[right] = shuffledPaths[right], shuffledPaths[left]
		})
		assert.Equal(testingInstance, referenceTree, commands.BuildTree(shuffledPaths))
	}
}

// assertSortedByTitle verifies the sibling ordering invariant at every level.
func assertSortedByTitle(testingInstance *testing.T, nodes []*types.TreeNode) {
	testingInstance.Helper()
	for nodeIndex := 1; nodeIndex < len(nodes); nodeIndex++ {
		assert.Less(testingInstance, nodes[nodeIndex-1].Title, nodes[nodeIndex].Title)
	}
	for _, node := range nodes {
		assertSortedByTitle(testingInstance, node.Children)
	}
}

func TestBuildTreeSortsEveryLevel(testingInstance *testing.T) {
	builtTree := commands.BuildTree([]string{
		"zebra/a.txt",
		"alpha/z.txt",
		"alpha/a.txt",
		"middle.txt",
		"alpha/nested/b.txt",
		"alpha/nested/a.txt",
	})
	assertSortedByTitle(testingInstance, builtTree)
}

// flattenFileKeys collects the key of every file node in traversal order.
func flattenFileKeys(nodes []*types.TreeNode, collected *[]string) {
	for _, node := range nodes {
		if node.Type == types.NodeTypeFile {
			*collected = append(*collected, node.Key)
			continue
		}
		flattenFileKeys(node.Children, collected)
	}
}

func TestBuildTreeRoundTripsInputPaths(testingInstance *testing.T) {
	relativePaths := []string{
		"cmd/cortex/main.go",
		"internal/cli/cli.go",
		"internal/types/types.go",
		"go.mod",
		"README.md",
	}
	builtTree := commands.BuildTree(relativePaths)

	var flattenedKeys []string
	flattenFileKeys(builtTree, &flattenedKeys)

	expectedKeys := make([]string, len(relativePaths))
	copy(expectedKeys, relativePaths)
	sort.Strings(expectedKeys)
	assert.Equal(testingInstance, expectedKeys, flattenedKeys)
}

func TestBuildTreeFolderWinsNameCollision(testingInstance *testing.T) {
	// "shared" appears both as a file and as a directory at the same level;
	// the directory survives and the file entry is discarded.
	builtTree := commands.BuildTree([]string{"shared", "shared/inner.txt"})

	require.Len(testingInstance, builtTree, 1)
	collidedNode := builtTree[0]
	assert.Equal(testingInstance, types.NodeTypeFolder, collidedNode.Type)
	require.Len(testingInstance, collidedNode.Children, 1)
	assert.Equal(testingInstance, "shared/inner.txt", collidedNode.Children[0].Key)

	reversedTree := commands.BuildTree([]string{"shared/inner.txt", "shared"})
	assert.Equal(testingInstance, builtTree, reversedTree)
}

func TestBuildTreeDeepNesting(testingInstance *testing.T) {
	builtTree := commands.BuildTree([]string{"a/b/c/d.txt"})

	require.Len(testingInstance, builtTree, 1)
	levelOne := builtTree[0]
	assert.Equal(testingInstance, "a", levelOne.Key)
	require.Len(testingInstance, levelOne.Children, 1)
	levelTwo := levelOne.Children[0]
	assert.Equal(testingInstance, "a/b", levelTwo.Key)
	require.Len(testingInstance, levelTwo.Children, 1)
	levelThree := levelTwo.Children[0]
	assert.Equal(testingInstance, "a/b/c", levelThree.Key)
	require.Len(testingInstance, levelThree.Children, 1)
	leafNode := levelThree.Children[0]
	assert.Equal(testingInstance, "a/b/c/d.txt", leafNode.Key)
	assert.Equal(testingInstance, "d.txt", leafNode.Title)
	assert.Equal(testingInstance, types.NodeTypeFile, leafNode.Type)
}
