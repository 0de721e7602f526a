package problem

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kanso-lang/repairgo/internal/langs/mini"
)

// Test harness input format (spec §6): a typed target binding, an optional
// `context:` section of auxiliary bindings, and any number of `prop_*`
// property bindings — each binding is a `name :: type` declaration
// immediately followed by a `name = expression` definition, definitions
// may continue onto following lines until a blank line or the next
// declaration. Example:
//
//	target :: [Int] -> Int
//	target = foldl (fn a -> fn b -> a - b) 0
//
//	context:
//	  zero :: Int
//	  zero = 0
//	  add :: Int -> Int -> Int
//	  add = fn a -> fn b -> a + b
//
//	prop_isSum :: ([Int] -> Int) -> Bool
//	prop_isSum = fn f -> f [1, 2, 3] == 6

var declHeaderRE = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_']*)\s*::\s*(.+?)\s*$`)
var declBodyRE = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_']*)\s*=\s*(.*)$`)

type rawDecl struct {
	name     string
	typeText string
	exprText string
}

// Load parses source (the test-harness input format above) into a Problem.
// name is used only as the returned Problem's Name (typically the
// originating file's basename).
func Load(name, source string) (Problem, error) {
	decls, err := splitDecls(source)
	if err != nil {
		return Problem{}, err
	}

	var target *rawDecl
	var contextDecls []rawDecl
	var propDecls []rawDecl

	for i := range decls {
		d := &decls[i]
		switch {
		case d.name == "target":
			if target != nil {
				return Problem{}, fmt.Errorf("problem %q: duplicate 'target' declaration", name)
			}
			target = d
		case strings.HasPrefix(d.name, "prop_"):
			propDecls = append(propDecls, *d)
		default:
			contextDecls = append(contextDecls, *d)
		}
	}

	if target == nil {
		return Problem{}, fmt.Errorf("problem %q: missing required 'target :: <type>' / 'target = <expr>' declaration", name)
	}

	targetType, err := mini.ParseType(target.typeText)
	if err != nil {
		return Problem{}, fmt.Errorf("problem %q: parsing target's type: %w", name, err)
	}
	targetExpr, err := mini.ParseExpr(target.exprText)
	if err != nil {
		return Problem{}, fmt.Errorf("problem %q: parsing target expression: %w", name, err)
	}

	context := make([]ContextBinding, 0, len(contextDecls))
	for _, d := range contextDecls {
		t, err := mini.ParseType(d.typeText)
		if err != nil {
			return Problem{}, fmt.Errorf("problem %q: parsing context binding %q's type: %w", name, d.name, err)
		}
		e, err := mini.ParseExpr(d.exprText)
		if err != nil {
			return Problem{}, fmt.Errorf("problem %q: parsing context binding %q: %w", name, d.name, err)
		}
		context = append(context, ContextBinding{Name: d.name, Type: t, Value: e})
	}

	properties := make([]Property, 0, len(propDecls))
	for _, d := range propDecls {
		e, err := mini.ParseExpr(d.exprText)
		if err != nil {
			return Problem{}, fmt.Errorf("problem %q: parsing property %q: %w", name, d.name, err)
		}
		properties = append(properties, Property{Name: d.name, Expr: e})
	}

	return Problem{
		Name:       name,
		Program:    targetExpr,
		Type:       targetType,
		Properties: properties,
		Context:    context,
	}, nil
}

// splitDecls breaks source into (name :: type) + (name = expr) pairs. The
// "context:" section header is recognized and skipped; it carries no
// information beyond grouping, since a binding's role (context vs.
// property) is already determined by its name.
func splitDecls(source string) ([]rawDecl, error) {
	lines := strings.Split(source, "\n")

	var decls []rawDecl
	var pendingName, pendingType string
	haveHeader := false

	flushIfBody := func(bodyLines []string) error {
		if !haveHeader {
			return nil
		}
		if len(bodyLines) == 0 {
			return fmt.Errorf("declaration %q has a type but no definition", pendingName)
		}
		m := declBodyRE.FindStringSubmatch(bodyLines[0])
		if m == nil || m[1] != pendingName {
			return fmt.Errorf("expected %q's definition (%q = ...) after its type declaration", pendingName, pendingName)
		}
		exprLines := append([]string{m[2]}, bodyLines[1:]...)
		decls = append(decls, rawDecl{name: pendingName, typeText: pendingType, exprText: strings.Join(exprLines, "\n")})
		haveHeader = false
		return nil
	}

	var bodyBuf []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "context:" {
			continue
		}
		if trimmed == "" {
			if err := flushIfBody(bodyBuf); err != nil {
				return nil, err
			}
			bodyBuf = nil
			continue
		}
		if m := declHeaderRE.FindStringSubmatch(line); m != nil {
			if err := flushIfBody(bodyBuf); err != nil {
				return nil, err
			}
			bodyBuf = nil
			pendingName, pendingType = m[1], m[2]
			haveHeader = true
			continue
		}
		bodyBuf = append(bodyBuf, line)
	}
	if err := flushIfBody(bodyBuf); err != nil {
		return nil, err
	}
	return decls, nil
}
