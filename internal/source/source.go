package source

import "strings"

// Kind discriminates template source variants.
type Kind int

const (
	// Local is a path on the local filesystem.
	Local Kind = iota
	// Remote is an http(s) URL fetched over the network.
	Remote
)

// Source is a template reference resolved once into its variant.
type Source struct {
	Kind Kind
	Ref  string
}

// Resolve classifies a template reference as a remote URL or a local path.
func Resolve(ref string) Source {
	if IsURL(ref) {
		return Source{Kind: Remote, Ref: ref}
	}
	return Source{Kind: Local, Ref: ref}
}

// IsURL reports whether ref carries a network scheme.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
