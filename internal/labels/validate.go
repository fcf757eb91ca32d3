package labels

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxLabelFileSize bounds what a FileSource will decode in one reload.
const MaxLabelFileSize = 256 << 20

// headerSize is how much of a label file is inspected for binary content.
const headerSize = 64 * 1024

var (
	ErrLabelFileTooLarge = errors.New("label file too large")
	ErrBinaryLabelFile   = errors.New("label file appears to be binary")
)

// boltMagic is the page header magic of a bolt database, a common mistake
// when --labels is given the store.
var boltMagic = []byte{0xED, 0xDA, 0x0C, 0xED}

// validateLabelData rejects content that cannot be a TOML or YAML label
// file before it reaches the decoder.
func validateLabelData(data []byte) error {
	if len(data) > MaxLabelFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrLabelFileTooLarge, len(data), MaxLabelFileSize)
	}

	header := data
	if len(header) > headerSize {
		header = header[:headerSize]
	}
	if bytes.Contains(header[:min(len(header), 4096)], boltMagic) {
		return fmt.Errorf("%w: looks like a bolt store, use --store", ErrBinaryLabelFile)
	}
	if isBinaryData(header) {
		return ErrBinaryLabelFile
	}
	if !utf8.Valid(header) {
		i := lastValidPrefix(header)
		// a truncated header may end inside a multi-byte rune
		truncated := len(header) < len(data) && i >= len(header)-utf8.UTFMax
		if !truncated {
			return fmt.Errorf("%w: invalid UTF-8 at byte %d", ErrBinaryLabelFile, i)
		}
	}
	return nil
}

// isBinaryData reports more than 30% control characters other than tab,
// LF and CR.
func isBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range data {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > 0.3
}

// lastValidPrefix returns the length of the longest valid UTF-8 prefix.
func lastValidPrefix(data []byte) int {
	i := 0
	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return i
}
