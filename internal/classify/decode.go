package classify

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DecodePolicy selects how byte sequences that are not valid UTF-8 are
// handled when capturing text content.
type DecodePolicy string

const (
	// DecodeStrict fails the read when the content is not valid UTF-8.
	DecodeStrict DecodePolicy = "strict"
	// DecodeReplace substitutes each ill-formed sequence with U+FFFD.
	DecodeReplace DecodePolicy = "replace"
	// DecodeDrop discards ill-formed bytes and keeps the remaining content.
	DecodeDrop DecodePolicy = "drop"
)

// errorInvalidUTF8Format reports strict-policy decode failures.
const errorInvalidUTF8Format = "content is not valid UTF-8 at byte offset %d"

// ParseDecodePolicy validates a policy name supplied by configuration or flags.
func ParseDecodePolicy(value string) (DecodePolicy, error) {
	switch DecodePolicy(value) {
	case DecodeStrict, DecodeReplace, DecodeDrop:
		return DecodePolicy(value), nil
	default:
		return "", fmt.Errorf("unsupported decode policy %q (expected strict, replace, or drop)", value)
	}
}

// DecodeText converts raw file bytes into a string under the given policy.
// The drop policy matches the analyzer's historical behavior: invalid bytes
// vanish individually and never abort a scan.
func DecodeText(data []byte, policy DecodePolicy) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	switch policy {
	case DecodeStrict:
		return "", fmt.Errorf(errorInvalidUTF8Format, firstInvalidOffset(data))
	case DecodeReplace:
		replaced, _, transformError := transform.Bytes(runes.ReplaceIllFormed(), data)
		if transformError != nil {
			return "", transformError
		}
		return string(replaced), nil
	default:
		return dropIllFormed(data), nil
	}
}

// firstInvalidOffset locates the first byte that does not begin a valid
// UTF-8 sequence.
func firstInvalidOffset(data []byte) int {
	for offset := 0; offset < len(data); {
		runeValue, runeSize := utf8.DecodeRune(data[offset:])
		if runeValue == utf8.RuneError && runeSize == 1 {
			return offset
		}
		offset += runeSize
	}
	return len(data)
}

// dropIllFormed removes invalid bytes one at a time, keeping every decodable rune.
func dropIllFormed(data []byte) string {
	decoded := make([]byte, 0, len(data))
	for offset := 0; offset < len(data); {
		runeValue, runeSize := utf8.DecodeRune(data[offset:])
		if runeValue == utf8.RuneError && runeSize == 1 {
			offset++
			continue
		}
		decoded = append(decoded, data[offset:offset+runeSize]...)
		offset += runeSize
	}
	return string(decoded)
}
