package ast

// Resource is the root node: an ordered sequence of entries as they appeared
// in (or were recovered from) the source text.
type Resource struct {
	Entries []Entry
}

// Entry is one of Message, Term, Comment, or Junk.
type Entry interface {
	isEntry()
	Position() Span
}

// CommentKind distinguishes the three comment levels of the grammar.
type CommentKind int

const (
	// CommentRegular is a single "#" line comment attached to the entry that follows it.
	CommentRegular CommentKind = iota
	// CommentGroup is a "##" comment documenting a group of entries.
	CommentGroup
	// CommentResource is a "###" comment documenting the whole resource.
	CommentResource
)

func (k CommentKind) String() string {
	switch k {
	case CommentRegular:
		return "comment"
	case CommentGroup:
		return "group-comment"
	case CommentResource:
		return "resource-comment"
	default:
		return "comment"
	}
}

// Identifier is a bare name matching `[a-zA-Z][a-zA-Z0-9_-]*`.
type Identifier struct {
	Name string
	Span Span
}

// Message is a public entry: an identifier bound to an optional value
// pattern and zero or more attributes. At least one of Value or Attributes
// must be present for the message to be meaningful, but the parser does not
// enforce that — it is a resolver/validation-time concern (see syntax
// validation and resolve.ResolveMessage).
type Message struct {
	Id         Identifier
	Value      *Pattern
	Attributes []Attribute
	Comment    *Comment
	Span       Span
}

func (*Message) isEntry()         {}
func (m *Message) Position() Span { return m.Span }

// Term is a private entry addressable only via `-id`. Unlike Message, Value
// is required by the grammar.
type Term struct {
	Id         Identifier
	Value      Pattern
	Attributes []Attribute
	Comment    *Comment
	Span       Span
}

func (*Term) isEntry()         {}
func (t *Term) Position() Span { return t.Span }

// Attribute is a named secondary pattern hung off a Message or Term, e.g.
// `.gender = masculine`.
type Attribute struct {
	Id    Identifier
	Value Pattern
	Span  Span
}

// Comment is a standalone `#`/`##`/`###` entry not attached to a message.
type Comment struct {
	Kind    CommentKind
	Content string
	Span    Span
}

func (*Comment) isEntry()         {}
func (c *Comment) Position() Span { return c.Span }

// Junk is a slice of source the parser could not make sense of. Parsing
// never fails outright; malformed input is recovered as Junk so the rest of
// the resource can still be parsed.
type Junk struct {
	Content     string
	Annotations []Annotation
	Span        Span
}

func (*Junk) isEntry()         {}
func (j *Junk) Position() Span { return j.Span }

// Annotation records one recoverable problem found while producing a Junk
// entry: a stable code, a human message, the span of the offending text, and
// any positional arguments used to format Message (kept separately so
// tooling can localize or restyle the message without reparsing it).
type Annotation struct {
	Code    string
	Message string
	Span    Span
	Args    []string
}
