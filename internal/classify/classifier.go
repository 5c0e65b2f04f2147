// Package classify decides whether project files are captured verbatim as
// text or recorded as opaque binary entries.
package classify

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Classification is the outcome of inspecting a single file.
type Classification int

const (
	// Text marks files whose decoded content is captured into the snapshot.
	Text Classification = iota
	// Binary marks files recorded in the tree but excluded from content capture.
	Binary
)

// String returns a human-readable classification name.
func (classification Classification) String() string {
	if classification == Binary {
		return "binary"
	}
	return "text"
}

// defaultSniffLength is the number of leading bytes inspected for NUL bytes
// when the extension lists are inconclusive.
const defaultSniffLength = 1024

// DefaultForceTextExtensions lists extensions classified Text unconditionally,
// without content inspection.
var DefaultForceTextExtensions = []string{
	".json", ".yaml", ".yml", ".md", ".txt", ".log", ".xml", ".ini", ".cfg", ".conf",
	".py", ".js", ".jsx", ".ts", ".tsx", ".html", ".css", ".scss", ".less",
	".java", ".cs", ".c", ".cpp", ".h", ".hpp", ".go", ".rb", ".rs", ".sh",
	".vue", ".svelte", ".toml", ".env",
}

// DefaultForceBinaryExtensions lists known binary, media, archive, and
// executable extensions classified Binary unconditionally.
var DefaultForceBinaryExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".svg",
	".zip", ".gz", ".tar", ".rar",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".exe", ".dll", ".so", ".o", ".a",
	".jar", ".class",
	".mp3", ".wav", ".flac",
	".mp4", ".mkv", ".avi", ".mov",
	".ttf", ".woff", ".woff2", ".eot",
	".db", ".sqlite", ".sqlite3",
}

// Config carries the immutable inputs of a Classifier. Zero fields fall back
// to the package defaults, which mirror the extension lists the CortexDev
// web interface was built against.
type Config struct {
	ForceTextExtensions   []string
	ForceBinaryExtensions []string
	SniffLength           int
	DecodePolicy          DecodePolicy
}

// Classifier applies the extension allow and deny lists before falling back
// to NUL-byte content sniffing for unrecognized extensions.
type Classifier struct {
	forceTextExtensions   map[string]struct{}
	forceBinaryExtensions map[string]struct{}
	sniffLength           int
	decodePolicy          DecodePolicy
}

// NewClassifier constructs a Classifier from the provided configuration.
func NewClassifier(configuration Config) *Classifier {
	textExtensions := configuration.ForceTextExtensions
	if textExtensions == nil {
		textExtensions = DefaultForceTextExtensions
	}
	binaryExtensions := configuration.ForceBinaryExtensions
	if binaryExtensions == nil {
		binaryExtensions = DefaultForceBinaryExtensions
	}
	sniffLength := configuration.SniffLength
	if sniffLength <= 0 {
		sniffLength = defaultSniffLength
	}
	decodePolicy := configuration.DecodePolicy
	if decodePolicy == "" {
		decodePolicy = DecodeDrop
	}

	classifier := &Classifier{
		forceTextExtensions:   make(map[string]struct{}, len(textExtensions)),
		forceBinaryExtensions: make(map[string]struct{}, len(binaryExtensions)),
		sniffLength:           sniffLength,
		decodePolicy:          decodePolicy,
	}
	for _, extension := range textExtensions {
		classifier.forceTextExtensions[strings.ToLower(extension)] = struct{}{}
	}
	for _, extension := range binaryExtensions {
		classifier.forceBinaryExtensions[strings.ToLower(extension)] = struct{}{}
	}
	return classifier
}

// Classify determines whether the file at filePath is text or binary.
// The extension lists are authoritative; content sniffing only runs for
// extensionless or unrecognized files. Files that cannot be opened or read
// classify Binary so that unreadable content is excluded rather than raised.
func (classifier *Classifier) Classify(filePath string) Classification {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	if _, isForceText := classifier.forceTextExtensions[fileExtension]; isForceText {
		return Text
	}
	if _, isForceBinary := classifier.forceBinaryExtensions[fileExtension]; isForceBinary {
		return Binary
	}

	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return Binary
	}
	defer fileHandle.Close()

	prefixBuffer := make([]byte, classifier.sniffLength)
	bytesRead, readError := fileHandle.Read(prefixBuffer)
	if readError != nil && readError != io.EOF {
		return Binary
	}
	for _, byteValue := range prefixBuffer[:bytesRead] {
		if byteValue == 0 {
			return Binary
		}
	}
	return Text
}

// ReadText reads the full content of a Text-classified file and decodes it
// as UTF-8 under the classifier's decode policy.
func (classifier *Classifier) ReadText(filePath string) (string, error) {
	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		return "", readError
	}
	return DecodeText(fileBytes, classifier.decodePolicy)
}
