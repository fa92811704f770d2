package emoji

import (
	"encoding/json"
	"fmt"
)

// payload is the serialized attachment form of a Source. The field
// names mirror the variant names so payloads stay readable in dumps.
type payload struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// EncodeSource serializes a source for embedding as an attachment
// payload. The encoding round-trips through DecodeSource.
func EncodeSource(s Source) []byte {
	b, err := json.Marshal(payload{Kind: s.kind.String(), Value: s.value})
	if err != nil {
		// payload has no unmarshalable fields; this cannot happen.
		panic(err)
	}
	return b
}

// DecodeSource parses an attachment payload back into a Source.
// Callers are expected to skip attachments whose payload fails to
// decode rather than abort the surrounding scan.
func DecodeSource(b []byte) (Source, error) {
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return Source{}, fmt.Errorf("emoji: bad payload: %w", err)
	}
	switch p.Kind {
	case "character":
		return Character(p.Value), nil
	case "imageUrl":
		return ImageURL(p.Value), nil
	case "imageAsset":
		return ImageAsset(p.Value), nil
	case "alias":
		return Alias(p.Value), nil
	}
	return Source{}, fmt.Errorf("emoji: unknown source kind %q", p.Kind)
}
