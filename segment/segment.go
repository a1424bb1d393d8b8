package segment

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/975125089bb/flutter-app/core"
)

// Marker precedes every profile entry in a document.
const Marker = "编号"

// MissingLabel is the label used when a heading line carries no digits.
// Several blocks in one document may share it.
const MissingLabel = "None"

// Split segments document text into blocks. Text before the first marker is
// ignored. SequenceID is the 1-based index of the split and is not
// renumbered when blank fragments are dropped.
func Split(document, text string) []core.RawBlock {
	parts := strings.Split(text, Marker)
	if len(parts) < 2 {
		return nil
	}

	blocks := make([]core.RawBlock, 0, len(parts)-1)
	for i, fragment := range parts[1:] {
		if strings.TrimSpace(fragment) == "" {
			continue
		}

		block := core.RawBlock{
			Document:   document,
			SequenceID: i + 1,
			Text:       fragment,
		}

		if nl := strings.IndexByte(fragment, '\n'); nl >= 0 {
			label := firstDigitRun(fragment[:nl])
			if label == "" {
				label = MissingLabel
			}
			block.SourceLabel = &label
			block.Text = Marker + label + "\n" + fragment[nl+1:]
		}

		blocks = append(blocks, block)
	}
	return blocks
}

// Count returns the number of blocks Split would produce.
func Count(text string) int {
	n := 0
	for _, fragment := range strings.Split(text, Marker)[1:] {
		if strings.TrimSpace(fragment) != "" {
			n++
		}
	}
	return n
}

func firstDigitRun(s string) string {
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		return ""
	}
	end := strings.IndexFunc(s[start:], func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		return s[start:]
	}
	return s[start : start+end]
}

// GenderFromFilename infers the gender override for every block of a
// document from its file name prefix.
func GenderFromFilename(path string) *string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasPrefix(name, "men_"):
		return core.Ptr("男")
	case strings.HasPrefix(name, "women_"):
		return core.Ptr("女")
	}
	return nil
}
