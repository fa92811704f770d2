package emoji

// Catalog maps shortcodes (without the surrounding colons) to their
// sources. Catalogs are owned by the caller: the engine reads them
// during a render pass and never retains or mutates them.
type Catalog map[string]Source

// maxAliasDepth bounds alias chains so a cyclic catalog cannot hang a
// render pass.
const maxAliasDepth = 8

// Resolve looks up a shortcode and follows alias chains to a concrete
// (non-alias) source. Returns false for unknown shortcodes, broken
// alias targets and alias cycles.
func (c Catalog) Resolve(shortcode string) (Source, bool) {
	src, ok := c[shortcode]
	if !ok {
		return Source{}, false
	}
	for depth := 0; src.Kind() == KindAlias; depth++ {
		if depth >= maxAliasDepth {
			return Source{}, false
		}
		src, ok = c[src.Value()]
		if !ok {
			return Source{}, false
		}
	}
	return src, true
}

// RenderOptions selects the quality the image loader should aim for.
// The overlay engine passes it through without interpreting it.
type RenderOptions int

const (
	// HighQuality is the default: smooth interpolation when scaling.
	HighQuality RenderOptions = iota
	// LowQuality trades fidelity for speed (nearest-neighbour scaling).
	LowQuality
)

func (o RenderOptions) String() string {
	if o == LowQuality {
		return "lowQuality"
	}
	return "highQuality"
}
