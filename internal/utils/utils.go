// Package utils contains general helper functions used across the analyzer.
package utils

import (
	"path/filepath"
)

const (
	// ConfigFileName is the name of the analyzer configuration file.
	ConfigFileName = "cortex.yaml"
	// GlobalConfigDirectoryName is the directory under the user home that holds global configuration.
	GlobalConfigDirectoryName = ".cortex"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// RelativePathOrSelf calculates the forward-slash relative path from root to
// fullPath. Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relativeError := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// StringSet builds a membership set from the provided values.
func StringSet(values []string) map[string]struct{} {
	memberSet := make(map[string]struct{}, len(values))
	for _, value := range values {
		memberSet[value] = struct{}{}
	}
	return memberSet
}
