package artifact

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FeatureID identifies one work item across all pipeline stages. Seq is
// stable for every artifact of the feature; Slug is normalized on creation
// and immutable afterwards.
type FeatureID struct {
	Seq  int
	Slug string
}

// ErrInvalidSlug is returned when a slug normalizes to nothing usable.
var ErrInvalidSlug = errors.New("invalid feature slug")

// ErrInvalidRef is returned when a feature reference cannot be parsed.
var ErrInvalidRef = errors.New("invalid feature reference")

// NewFeatureID validates the sequence number and normalizes the slug.
func NewFeatureID(seq int, slug string) (FeatureID, error) {
	if seq < 1 {
		return FeatureID{}, fmt.Errorf("feature sequence must be >= 1, got %d", seq)
	}
	normalized, err := NormalizeSlug(slug)
	if err != nil {
		return FeatureID{}, err
	}
	return FeatureID{Seq: seq, Slug: normalized}, nil
}

// Ref renders the canonical "<seq>-<slug>" form used on the CLI and in
// filenames.
func (id FeatureID) Ref() string {
	return strconv.Itoa(id.Seq) + "-" + id.Slug
}

func (id FeatureID) String() string {
	return id.Ref()
}

// ParseRef parses "<seq>-<slug>", e.g. "1-user-auth". The slug portion is
// normalized, so a ref survives a round trip through Ref.
func ParseRef(ref string) (FeatureID, error) {
	trimmed := strings.TrimSpace(ref)
	seqPart, slugPart, found := strings.Cut(trimmed, "-")
	if !found || seqPart == "" || slugPart == "" {
		return FeatureID{}, fmt.Errorf("%w: %q (want <seq>-<slug>)", ErrInvalidRef, ref)
	}
	seq, err := strconv.Atoi(seqPart)
	if err != nil {
		return FeatureID{}, fmt.Errorf("%w: sequence %q is not a number", ErrInvalidRef, seqPart)
	}
	id, err := NewFeatureID(seq, slugPart)
	if err != nil {
		return FeatureID{}, fmt.Errorf("%w: %v", ErrInvalidRef, err)
	}
	return id, nil
}

// stripMarks removes combining marks left over after NFD decomposition, so
// accented input still yields plain ASCII slugs.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSlug lowercases, strips diacritics, and reduces the slug to
// [a-z0-9] runs joined by single hyphens. Everything that could collide
// with the path separator or the ".<suffix>.md" grammar is rejected here,
// which is what keeps path resolution injective.
func NormalizeSlug(raw string) (string, error) {
	folded, _, err := transform.String(stripMarks, strings.TrimSpace(raw))
	if err != nil {
		folded = strings.TrimSpace(raw)
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, raw)
	}
	return slug, nil
}
