package domain

// ReferenceKind classifies the syntax a reference was written in.
type ReferenceKind string

// Reference kinds recognised by the extractor.
const (
	// ReferenceWiki is a double-bracket reference: [[target]] or
	// [[target|display]].
	ReferenceWiki ReferenceKind = "wiki"

	// ReferenceInline is a markdown link: [display](target).
	ReferenceInline ReferenceKind = "inline"

	// ReferenceID is an explicit id-scheme token: id:<token>.
	ReferenceID ReferenceKind = "id"

	// ReferencePath is an explicit path-scheme token: path:<relative-path>.
	ReferencePath ReferenceKind = "path"

	// ReferenceExternal is an inline link whose target carries an
	// http:// or https:// prefix. External references are never resolved.
	ReferenceExternal ReferenceKind = "external"
)

// String returns the string representation.
func (k ReferenceKind) String() string {
	return string(k)
}

// Reference is a cross-document reference extracted from body text.
type Reference struct {
	// Kind classifies the reference syntax.
	Kind ReferenceKind

	// Raw is the full matched text, e.g. "[[setup#install]]".
	Raw string

	// Target is the reference token with display text and anchor stripped.
	Target string

	// DisplayText is the optional human-readable label.
	DisplayText string

	// Anchor is the optional fragment after the last '#'.
	Anchor string

	// Line and Column are 1-based positions of the match.
	Line   int
	Column int
}

// ResolvedReference is a reference after target resolution.
type ResolvedReference struct {
	Reference

	// Resolved is true when the target was mapped to an existing path.
	Resolved bool

	// ResolvedPath is the root-relative path of the target on success.
	ResolvedPath string

	// Error describes why resolution failed, empty on success.
	Error string
}
