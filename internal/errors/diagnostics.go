package errors

import (
	"fmt"
	"strings"

	"github.com/kanso-lang/repairgo/internal/span"
)

// Builder provides a fluent interface for constructing diagnostics with
// suggestions, notes and help text.
type Builder struct {
	d Diagnostic
}

// NewError starts building an error-level diagnostic.
func NewError(code, message string, pos span.Position) *Builder {
	return &Builder{d: Diagnostic{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

// NewWarning starts building a warning-level diagnostic.
func NewWarning(code, message string, pos span.Position) *Builder {
	return &Builder{d: Diagnostic{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *Builder) WithLength(length int) *Builder {
	b.d.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{Message: message})
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.d.HelpText = help
	return b
}

func (b *Builder) Build() Diagnostic { return b.d }

// UndefinedVariable creates a diagnostic for an identifier with no binding
// in the current context, suggesting similarly spelled names if any.
func UndefinedVariable(name string, pos span.Position, similarNames []string) Diagnostic {
	builder := NewError(ErrorUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name), pos).
		WithLength(len(name))

	switch len(similarNames) {
	case 0:
		builder = builder.WithSuggestion("make sure the name is bound in the problem's context section").
			WithNote("context bindings are declared under 'context:' in the problem file, as 'name :: type' followed by 'name = expr'")
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	}

	return builder.Build()
}

// TypeMismatch creates a diagnostic for an expression whose inferred type
// does not match what was expected at that position.
func TypeMismatch(expected, actual string, pos span.Position) Diagnostic {
	return NewError(ErrorTypeMismatch, fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual), pos).
		WithHelp("hole fits are only offered at the exact expected type").
		Build()
}

// NotAFunction creates a diagnostic for applying a non-function expression.
func NotAFunction(actual string, pos span.Position) Diagnostic {
	return NewError(ErrorNotAFunction, fmt.Sprintf("cannot apply a value of type %s", actual), pos).Build()
}

// AmbiguousHole creates a diagnostic for a hole whose type could not be
// pinned down by the surrounding expression during typed-hole inference.
func AmbiguousHole(pos span.Position) Diagnostic {
	return NewError(ErrorAmbiguousHole, "could not infer a concrete type for this hole", pos).
		WithHelp("wrap the hole's context in an explicit type annotation").
		Build()
}

// InvalidFlagValue creates a diagnostic for a malformed CLI flag.
func InvalidFlagValue(flag, reason string) Diagnostic {
	return NewError(ErrorInvalidFlagValue, fmt.Sprintf("-%s: %s", flag, reason), span.Position{Line: 1, Column: 1}).Build()
}
