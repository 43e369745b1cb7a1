package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/tagsync/internal/shared"
)

const (
	// MaxTagLength is the platform's per-tag character limit.
	MaxTagLength = 30
	// MaxTagSetLength is the platform's limit on the serialized tag list.
	MaxTagSetLength = 500
)

// TagSet is an ordered, deduplicated list of cleaned video tags.
//
// A TagSet only comes out of [NormalizeTags], so downstream consumers can rely
// on every tag being trimmed, non-empty, and within platform limits.
type TagSet []string

// NormalizeTags parses a raw delimited tag string into a TagSet.
//
// Fragments are split on commas and semicolons and trimmed. Duplicates are
// dropped case-sensitively, first occurrence wins, order preserved.
func NormalizeTags(raw string) (TagSet, error) {
	fragments := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})

	seen := make(map[string]bool, len(fragments))
	tags := make(TagSet, 0, len(fragments))
	for _, fragment := range fragments {
		tag := strings.TrimSpace(fragment)
		if tag == "" || seen[tag] {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, fmt.Errorf("%w: tag %q exceeds %d character limit", shared.ErrTagTooLong, tag, MaxTagLength)
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no usable tags in input", shared.ErrEmptyTagSet)
	}

	if l := tags.SerializedLength(); l > MaxTagSetLength {
		return nil, fmt.Errorf("%w: tags serialize to %d characters, limit is %d", shared.ErrTagSetTooLong, l, MaxTagSetLength)
	}

	return tags, nil
}

// SerializedLength returns the aggregate length the platform counts against
// its limit: the sum of tag lengths plus one separator per tag after the first.
func (t TagSet) SerializedLength() int {
	if len(t) == 0 {
		return 0
	}
	total := len(t) - 1
	for _, tag := range t {
		total += utf8.RuneCountInString(tag)
	}
	return total
}

// Strings returns the tags as a plain string slice for API payloads.
func (t TagSet) Strings() []string {
	return []string(t)
}

// String renders the tag set the way it appears in record fields.
func (t TagSet) String() string {
	return strings.Join(t, ", ")
}
