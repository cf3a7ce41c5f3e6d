package lexer

// Kind classifies a token.
type Kind int

const (
	KindUnknown Kind = iota
	KindName
	KindKeyword
	KindPunctuation
	KindOperator
	KindString
	KindTemplate
	KindNumber
	KindRegexp
	KindAtom
	KindComment
	KindEOF
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindName:        "name",
	KindKeyword:     "keyword",
	KindPunctuation: "punc",
	KindOperator:    "operator",
	KindString:      "string",
	KindTemplate:    "template",
	KindNumber:      "num",
	KindRegexp:      "regexp",
	KindAtom:        "atom",
	KindComment:     "comment",
	KindEOF:         "eof",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// CommentStyle distinguishes /* block */ comments from // line comments.
type CommentStyle int

const (
	CommentLine CommentStyle = iota
	CommentBlock
)

// Comment is a source comment with its delimiters removed.
type Comment struct {
	Style CommentStyle
	Text  string
	Line  int // 1-indexed
}

// Token is a single lexical unit.
// Comments holds the unbroken run of comments between this token and the
// previous non-comment token, oldest first.
type Token struct {
	Kind     Kind
	Value    string
	Line     int // 1-indexed
	Comments []Comment
}

// Is reports whether the token has the given kind and value.
func (t Token) Is(kind Kind, value string) bool {
	return t.Kind == kind && t.Value == value
}
