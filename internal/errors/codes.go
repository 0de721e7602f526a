package errors

// Error codes for the repair engine's own front end: the mini-language
// lexer/parser/type-checker and problem-file loader.
//
// E01xx: lexical/syntax errors
// E02xx: type errors
// E03xx: problem-file / configuration errors

const (
	ErrorUnexpectedChar     = "E0101"
	ErrorUnexpectedToken    = "E0102"
	ErrorUnterminatedExpr   = "E0103"
	ErrorUndefinedVariable  = "E0104"

	ErrorTypeMismatch  = "E0201"
	ErrorNotAFunction  = "E0202"
	ErrorNotAList      = "E0203"
	ErrorAmbiguousHole = "E0204"

	ErrorMissingTarget    = "E0301"
	ErrorMissingType      = "E0302"
	ErrorInvalidProperty  = "E0303"
	ErrorInvalidFlagValue = "E0304"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUnexpectedChar:
		return "an unexpected character was found while scanning"
	case ErrorUnexpectedToken:
		return "the parser did not expect this token here"
	case ErrorUnterminatedExpr:
		return "an expression was not closed before end of input"
	case ErrorUndefinedVariable:
		return "the identifier is not bound in the current context"
	case ErrorTypeMismatch:
		return "the expression's type does not match what was expected"
	case ErrorNotAFunction:
		return "the expression is applied as a function but is not one"
	case ErrorNotAList:
		return "the expression is indexed/folded as a list but is not one"
	case ErrorAmbiguousHole:
		return "the hole's type could not be determined from context"
	case ErrorMissingTarget:
		return "the problem file has no target binding"
	case ErrorMissingType:
		return "the target binding has no declared type"
	case ErrorInvalidProperty:
		return "a prop_* binding is not a well-formed property"
	case ErrorInvalidFlagValue:
		return "a CLI flag was given an invalid value"
	default:
		return "unknown error"
	}
}
