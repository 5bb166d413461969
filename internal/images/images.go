package images

import "strings"

// Normalizer maps possibly-relative image paths to absolute URLs.
type Normalizer struct {
	base        string
	placeholder string
}

// NewNormalizer creates a normalizer for the given image base URL
func NewNormalizer(base, placeholder string) *Normalizer {
	return &Normalizer{
		base:        strings.TrimRight(base, "/"),
		placeholder: placeholder,
	}
}

// Normalize resolves an image path to an absolute URL. Empty paths map to
// the placeholder, absolute URLs pass through unchanged.
func (n *Normalizer) Normalize(path string) string {
	if path == "" {
		return n.placeholder
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return n.base + "/" + strings.TrimLeft(path, "/")
}

// Placeholder returns the configured fallback image URL
func (n *Normalizer) Placeholder() string {
	return n.placeholder
}
