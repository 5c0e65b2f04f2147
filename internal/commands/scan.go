package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cortexdev/cortex/internal/classify"
	"github.com/cortexdev/cortex/internal/utils"
)

const (
	// warningAccessPathFormat is used when a walked path cannot be accessed.
	warningAccessPathFormat = "Warning: error accessing path %s: %v"
	// warningReadTextFormat is used when a text-classified file cannot be read.
	warningReadTextFormat = "Warning: could not read text file %s: %v"
	// errorAbsolutePathFormat is used when the absolute scan root cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorWalkFormat is used when the directory walk itself fails.
	errorWalkFormat = "walking directory %s: %w"
	// errorStatRootFormat is used when the scan root cannot be inspected.
	errorStatRootFormat = "inspecting scan root %s: %w"
	// errorRootNotDirectoryFormat is used when the scan root is not a directory.
	errorRootNotDirectoryFormat = "scan root %s is not a directory"
)

// DefaultIgnoreDirectories lists directory names skipped during every scan:
// version control metadata plus common build, dependency, and editor caches.
var DefaultIgnoreDirectories = []string{
	utils.GitDirectoryName, "__pycache__", "node_modules", "venv", ".venv",
	"dist", "build", ".idea", ".vscode", "target", "out",
}

// Scanner walks a project root sequentially and collects the inputs of a
// snapshot. Ignore and exclusion sets are fixed at construction.
type Scanner struct {
	IgnoreDirectories map[string]struct{}
	ExcludedFileNames map[string]struct{}
	Classifier        *classify.Classifier
	Warn              func(string)
}

// NewScanner constructs a Scanner with the default ignore-set. Excluded file
// names cover the snapshot output file and the analyzer's own binary so a
// scan never captures its own artifacts.
func NewScanner(classifier *classify.Classifier, excludedFileNames []string, warn func(string)) *Scanner {
	return &Scanner{
		IgnoreDirectories: utils.StringSet(DefaultIgnoreDirectories),
		ExcludedFileNames: utils.StringSet(excludedFileNames),
		Classifier:        classifier,
		Warn:              warn,
	}
}

// Result holds everything one walk discovered: the relative path of every
// surviving file and the decoded content of the text-classified subset.
type Result struct {
	Paths        []string
	TextContents map[string]string
}

// Scan walks rootPath in a single sequential pass. Per-file failures degrade
// to warnings; only a failure of the walk itself is returned as an error.
func (scanner *Scanner) Scan(rootPath string) (Result, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return Result{}, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	rootInformation, rootStatError := os.Stat(cleanedRootPath)
	if rootStatError != nil {
		return Result{}, fmt.Errorf(errorStatRootFormat, cleanedRootPath, rootStatError)
	}
	if !rootInformation.IsDir() {
		return Result{}, fmt.Errorf(errorRootNotDirectoryFormat, cleanedRootPath)
	}

	result := Result{TextContents: make(map[string]string)}

	directoryWalkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			scanner.warn(fmt.Sprintf(warningAccessPathFormat, walkedPath, accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		entryName := directoryEntry.Name()
		if directoryEntry.IsDir() {
			if walkedPath == cleanedRootPath {
				return nil
			}
			if _, isIgnored := scanner.IgnoreDirectories[entryName]; isIgnored {
				return filepath.SkipDir
			}
			return nil
		}

		if _, isExcluded := scanner.ExcludedFileNames[entryName]; isExcluded {
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		result.Paths = append(result.Paths, relativePath)

		if scanner.Classifier.Classify(walkedPath) != classify.Text {
			return nil
		}
		textContent, readError := scanner.Classifier.ReadText(walkedPath)
		if readError != nil {
			scanner.warn(fmt.Sprintf(warningReadTextFormat, walkedPath, readError))
			return nil
		}
		result.TextContents[relativePath] = textContent
		return nil
	})
	if directoryWalkError != nil {
		return Result{}, fmt.Errorf(errorWalkFormat, cleanedRootPath, directoryWalkError)
	}

	return result, nil
}

// warn forwards a diagnostic to the configured sink, defaulting to stderr.
func (scanner *Scanner) warn(message string) {
	if scanner.Warn != nil {
		scanner.Warn(message)
		return
	}
	fmt.Fprintln(os.Stderr, message)
}
