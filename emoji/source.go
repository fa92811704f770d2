package emoji

import "fmt"

// Kind discriminates the variants of a Source.
type Kind int

const (
	// KindCharacter renders literal text (usually a unicode emoji rune).
	KindCharacter Kind = iota
	// KindImageURL renders a remote image fetched over HTTP(S).
	KindImageURL
	// KindImageAsset renders an image bundled with the application.
	KindImageAsset
	// KindAlias points at another catalog entry by shortcode.
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindImageURL:
		return "imageUrl"
	case KindImageAsset:
		return "imageAsset"
	case KindAlias:
		return "alias"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Source describes where an emoji's pixels (or glyph) come from.
// It is an immutable value; two Sources with the same kind and value
// are the same emoji for caching purposes.
type Source struct {
	kind  Kind
	value string
}

// Character builds a source rendered as literal text.
func Character(text string) Source { return Source{kind: KindCharacter, value: text} }

// ImageURL builds a source backed by a remote image.
func ImageURL(url string) Source { return Source{kind: KindImageURL, value: url} }

// ImageAsset builds a source backed by a bundled image asset.
func ImageAsset(name string) Source { return Source{kind: KindImageAsset, value: name} }

// Alias builds a source that refers to another shortcode.
func Alias(shortcode string) Source { return Source{kind: KindAlias, value: shortcode} }

// Kind reports the variant of the source.
func (s Source) Kind() Kind { return s.kind }

// Value returns the variant payload: the text, URL, asset name or
// aliased shortcode depending on Kind.
func (s Source) Value() string { return s.value }

// Key returns a string identity for the source, discriminated by
// variant so that ImageURL("x") and ImageAsset("x") never collide.
// Suitable as a cache key.
func (s Source) Key() string {
	return s.kind.String() + ":" + s.value
}

func (s Source) String() string { return s.Key() }

// IsZero reports whether the source is the zero value (KindCharacter
// with empty text), which no catalog entry should produce.
func (s Source) IsZero() bool { return s.kind == KindCharacter && s.value == "" }
