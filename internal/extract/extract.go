// Package extract pulls configuration symbol names out of source text.
//
// Each Rule is a named, compiled matcher with exactly one symbol capture.
// Rules are stateless and safe to reuse across files.
package extract

import (
	"regexp"
	"strings"

	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/source"
)

// symbolPattern is the symbol alphabet shared by every rule.
const symbolPattern = `[A-Z0-9_]+`

// Rule finds symbol mentions in text.
type Rule interface {
	// Name identifies the rule in reports and logs.
	Name() string
	// FindAll returns every symbol matched in text, in order of appearance.
	// Duplicates are kept.
	FindAll(text string) []string
}

// Extract applies rule to text and returns the unique symbols found.
func Extract(text string, rule Rule) model.Set {
	return model.NewSet(rule.FindAll(text)...)
}

// DefaultCalls are the direct environment access calls matched by default:
// the getenv family and the environment mapping get family.
var DefaultCalls = []string{"os.getenv", "os.environ.get"}

// DefaultSettingsObject is the object whose members are settings fields.
const DefaultSettingsObject = "settings"

type callArgument struct {
	re *regexp.Regexp
}

// CallArgument matches the first quoted argument of an access call such as
// os.getenv("NAME") or os.environ.get('NAME'). Whitespace, newlines
// included, is allowed between the parenthesis and the quote. Comment lines
// are removed before matching.
func CallArgument(calls ...string) Rule {
	if len(calls) == 0 {
		calls = DefaultCalls
	}
	quoted := make([]string, len(calls))
	for i, c := range calls {
		quoted[i] = regexp.QuoteMeta(c)
	}
	pattern := `(?:` + strings.Join(quoted, "|") + `)\(\s*(?:"(` + symbolPattern + `)"|'(` + symbolPattern + `)')`
	return &callArgument{re: regexp.MustCompile(pattern)}
}

func (r *callArgument) Name() string { return "call-argument" }

func (r *callArgument) FindAll(text string) []string {
	var out []string
	for _, m := range r.re.FindAllStringSubmatch(source.StripComments(text), -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}

var bareTokenRe = regexp.MustCompile(`^\s*(` + symbolPattern + `)\s*$`)

type bareToken struct{}

// BareToken treats each non-comment, non-blank line as one symbol. Lines
// holding anything besides a single symbol are ignored.
func BareToken() Rule { return bareToken{} }

func (bareToken) Name() string { return "bare-token" }

func (bareToken) FindAll(text string) []string {
	var out []string
	for _, line := range source.Lines(source.StripCommentsAndBlanks(text)) {
		if m := bareTokenRe.FindStringSubmatch(line); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

// RejectedLine is a declaration line BareToken ignored.
type RejectedLine struct {
	Line int // 1-based
	Text string
}

// BareTokenRejects returns the non-comment, non-blank lines of text that
// BareToken does not accept, such as "FOO # note" or a lowercase name.
func BareTokenRejects(text string) []RejectedLine {
	var out []RejectedLine
	for idx, line := range source.Lines(text) {
		if strings.TrimSpace(line) == "" || source.IsComment(line) {
			continue
		}
		if !bareTokenRe.MatchString(line) {
			out = append(out, RejectedLine{Line: idx + 1, Text: strings.TrimSpace(line)})
		}
	}
	return out
}

// lineRule applies an anchored multi-line pattern; used by the rules that
// only ever match at the start of a line.
type lineRule struct {
	name string
	re   *regexp.Regexp
}

func (r *lineRule) Name() string { return r.name }

func (r *lineRule) FindAll(text string) []string {
	var out []string
	for _, m := range r.re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

var fieldDeclaration = &lineRule{
	name: "field-declaration",
	re:   regexp.MustCompile(`(?m)^[ \t]*(` + symbolPattern + `)[ \t]*:`),
}

// FieldDeclaration matches a field declared on the settings structure:
// a symbol at the start of a line followed by a type annotation colon.
func FieldDeclaration() Rule { return fieldDeclaration }

var assignmentKey = &lineRule{
	name: "assignment-key",
	re:   regexp.MustCompile(`(?m)^[ \t]*(?:export[ \t]+)?(` + symbolPattern + `)[ \t]*=`),
}

// AssignmentKey matches the key of a KEY=value line in an example
// environment file. An optional leading "export" is accepted.
func AssignmentKey() Rule { return assignmentKey }

type memberAccess struct {
	re *regexp.Regexp
}

// MemberAccess matches object.SYMBOL, e.g. settings.DATABASE_URL.
func MemberAccess(object string) Rule {
	if object == "" {
		object = DefaultSettingsObject
	}
	return &memberAccess{re: regexp.MustCompile(`\b` + regexp.QuoteMeta(object) + `\.(` + symbolPattern + `)\b`)}
}

func (r *memberAccess) Name() string { return "member-access" }

func (r *memberAccess) FindAll(text string) []string {
	var out []string
	for _, m := range r.re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}
