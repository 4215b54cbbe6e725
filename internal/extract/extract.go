package extract

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the sections of a model reply.
const Delimiter = "---"

// Section selects which side of the first delimiter is kept.
type Section string

const (
	SectionAfter  Section = "after"
	SectionBefore Section = "before"
)

var (
	ErrDelimiterNotFound = errors.New("delimiter not found in completion")
	ErrUnknownSection    = errors.New("unknown extract section")
)

func ParseSection(s string) (Section, error) {
	switch Section(strings.ToLower(strings.TrimSpace(s))) {
	case SectionAfter:
		return SectionAfter, nil
	case SectionBefore:
		return SectionBefore, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
}

// Extract returns one section of text around the first Delimiter.
// SectionAfter is the text between the first and second delimiter (or the end of text);
// SectionBefore is everything before the first one. A reply without the delimiter
// yields ErrDelimiterNotFound.
func Extract(text string, section Section) (string, error) {
	head, tail, found := strings.Cut(text, Delimiter)
	if !found {
		return "", ErrDelimiterNotFound
	}

	switch section {
	case SectionAfter:
		mid, _, _ := strings.Cut(tail, Delimiter)
		return mid, nil
	case SectionBefore:
		return head, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
}
