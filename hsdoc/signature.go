package hsdoc

import (
	"fmt"
	"strings"

	pc "github.com/dhamidi/hsdoc/combinator"
)

// identifier: a letter or underscore, then letters, digits and underscores.
func identifier() textParser[Identifier] {
	return func(in pc.Text) (Identifier, pc.Text, error) {
		first, rest, err := pc.Char(isIdentStart, "identifier")(in)
		if err != nil {
			return "", in, err
		}
		tail, rest, _ := pc.TakeWhile(isIdentPart)(rest)
		return Identifier(string(first) + tail), rest, nil
	}
}

// nameSeparator looks for "." or ":" followed by an identifier.
func nameSeparator() textParser[Identifier] {
	return pc.Preceded(pc.OneOf(pc.Literal("."), pc.Literal(":")), identifier())
}

// modulePrefix matches the module part of a qualified name. Every element,
// including the last, must be followed by a separator and another identifier,
// so the trailing item name is never absorbed into the path.
func modulePrefix() textParser[ModulePath] {
	element := func(p textParser[Identifier]) textParser[Identifier] {
		return pc.Terminated(p, pc.Peek(nameSeparator()))
	}
	return pc.Map(
		pc.Pair(element(identifier()), pc.Many(element(pc.Preceded(pc.Literal("."), identifier())))),
		func(t pc.Tuple[Identifier, []Identifier]) ModulePath {
			return append(ModulePath{t.First}, t.Second...)
		},
	)
}

// moduleName matches a standalone dotted name, as used in module banners.
func moduleName() textParser[ModulePath] {
	return pc.Map(pc.OneOrMoreSep(identifier(), pc.Literal(".")), func(ids []Identifier) ModulePath {
		return ModulePath(ids)
	})
}

// qualified matches "module<sep>" when present.
func qualified(sep string) textParser[ModulePath] {
	return pc.Terminated(modulePrefix(), pc.Literal(sep))
}

func optionalModule(sep string) textParser[ModulePath] {
	return pc.Map(pc.Optionally(qualified(sep)), func(m *ModulePath) ModulePath {
		if m == nil {
			return nil
		}
		return *m
	})
}

func parameter() textParser[ParameterSignature] {
	return pc.OneOf(
		pc.Map(pc.Delimited(pc.Literal("["), identifier(), pc.Literal("]")), func(id Identifier) ParameterSignature {
			return ParameterSignature{Name: id, IsOptional: true}
		}),
		pc.Map(identifier(), func(id Identifier) ParameterSignature {
			return ParameterSignature{Name: id}
		}),
	)
}

// parameterList matches "(a, [b])". The empty list "()" is legal.
func parameterList() textParser[[]ParameterSignature] {
	comma := pc.Delimited(pc.Spaces(), pc.Literal(","), pc.Spaces())
	return pc.Delimited(pc.Literal("("), pc.ManySep(parameter(), comma), pc.Literal(")"))
}

// returnValue matches text up to the next comma, trimmed and non-empty.
func returnValue() textParser[ReturnSignature] {
	fragment := pc.Trim(pc.TakeWhile(func(r rune) bool { return r != ',' }))
	return pc.Map(pc.Verify(fragment, nonEmpty("return value")), func(s string) ReturnSignature {
		return ReturnSignature(s)
	})
}

// returnList matches "-> a, b". An arrow followed by nothing yields an
// empty, non-nil list.
func returnList() textParser[[]ReturnSignature] {
	arrow := pc.Delimited(pc.Spaces(), pc.Literal("->"), pc.Spaces())
	nothing := pc.Terminated(
		pc.Pure[pc.Text]([]ReturnSignature{}),
		pc.Peek(pc.Preceded(pc.Spaces(), pc.End())),
	)
	return pc.Preceded(arrow, pc.OneOf(nothing, pc.OneOrMoreSep(returnValue(), pc.Literal(","))))
}

func optionalReturns() textParser[[]ReturnSignature] {
	return pc.Map(pc.Optionally(returnList()), func(r *[]ReturnSignature) []ReturnSignature {
		if r == nil {
			return nil
		}
		return *r
	})
}

// typeText matches a free-text type after one or more blanks.
func typeText() textParser[string] {
	return pc.Map(
		pc.Optionally(pc.Preceded(pc.Spaces1(), pc.Verify(pc.Trim(pc.Rest()), nonEmpty("type")))),
		func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	)
}

type callableParts struct {
	module  ModulePath
	name    Identifier
	params  []ParameterSignature
	returns []ReturnSignature
}

func callable(module textParser[ModulePath]) textParser[callableParts] {
	return func(in pc.Text) (callableParts, pc.Text, error) {
		var parts callableParts
		var err error
		rest := in
		if parts.module, rest, err = module(rest); err != nil {
			return callableParts{}, in, err
		}
		if parts.name, rest, err = identifier()(rest); err != nil {
			return callableParts{}, in, err
		}
		if parts.params, rest, err = parameterList()(rest); err != nil {
			return callableParts{}, in, err
		}
		parts.returns, rest, _ = optionalReturns()(rest)
		return parts, rest, nil
	}
}

func constantSignature() textParser[ConstantSignature] {
	return pc.Map(pc.Pair(qualified("."), identifier()), func(t pc.Tuple[ModulePath, Identifier]) ConstantSignature {
		return ConstantSignature{Module: t.First, Name: t.Second}
	})
}

func constructorSignature() textParser[ConstructorSignature] {
	return pc.Map(callable(optionalModule(".")), func(p callableParts) ConstructorSignature {
		return ConstructorSignature{Module: p.module, Name: p.name, Parameters: p.params, Returns: p.returns}
	})
}

func functionSignature() textParser[FunctionSignature] {
	return pc.Map(callable(optionalModule(".")), func(p callableParts) FunctionSignature {
		return FunctionSignature{Module: p.module, Name: p.name, Parameters: p.params, Returns: p.returns}
	})
}

func methodSignature() textParser[MethodSignature] {
	return pc.Map(callable(qualified(":")), func(p callableParts) MethodSignature {
		return MethodSignature{Module: p.module, Name: p.name, Parameters: p.params, Returns: p.returns}
	})
}

type valueParts struct {
	module ModulePath
	name   Identifier
	typ    string
}

func value(module textParser[ModulePath]) textParser[valueParts] {
	return func(in pc.Text) (valueParts, pc.Text, error) {
		var parts valueParts
		var err error
		rest := in
		if parts.module, rest, err = module(rest); err != nil {
			return valueParts{}, in, err
		}
		if parts.name, rest, err = identifier()(rest); err != nil {
			return valueParts{}, in, err
		}
		parts.typ, rest, _ = typeText()(rest)
		return parts, rest, nil
	}
}

func fieldSignature() textParser[FieldSignature] {
	return pc.Map(value(qualified(".")), func(p valueParts) FieldSignature {
		return FieldSignature{Module: p.module, Name: p.name, Type: p.typ}
	})
}

func variableSignature() textParser[VariableSignature] {
	return pc.Map(value(optionalModule(".")), func(p valueParts) VariableSignature {
		return VariableSignature{Module: p.module, Name: p.name, Type: p.typ}
	})
}

// deprecableHeading matches the kind's heading literal (false) or
// "Deprecated" (true).
func deprecableHeading(kind Kind) textParser[bool] {
	return pc.OneOf(
		pc.Map(pc.Literal(kind.String()), func(string) bool { return false }),
		pc.Map(pc.Literal("Deprecated"), func(string) bool { return true }),
	)
}

func nonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("expected %s", what)
		}
		return nil
	}
}

// parseStandalone runs p over s as if it were the content of line 1,
// requiring it to consume everything but trailing blanks.
func parseStandalone[O any](p textParser[O], s string) (O, error) {
	out, _, err := pc.Terminated(p, pc.Preceded(pc.Spaces(), pc.End()))(pc.NewText(s, pc.Position{Line: 1, Column: 1}))
	return out, err
}

// ParseIdentifier parses a bare identifier.
func ParseIdentifier(s string) (Identifier, error) {
	return parseStandalone(identifier(), s)
}

// ParseModuleName parses a dotted module name.
func ParseModuleName(s string) (ModulePath, error) {
	return parseStandalone(moduleName(), s)
}

// ParseConstantSignature parses "module.NAME".
func ParseConstantSignature(s string) (ConstantSignature, error) {
	return parseStandalone(constantSignature(), s)
}

// ParseConstructorSignature parses "[module.]name(params) [-> returns]".
func ParseConstructorSignature(s string) (ConstructorSignature, error) {
	return parseStandalone(constructorSignature(), s)
}

// ParseFieldSignature parses "module.name [type]".
func ParseFieldSignature(s string) (FieldSignature, error) {
	return parseStandalone(fieldSignature(), s)
}

// ParseFunctionSignature parses "[module.]name(params) [-> returns]".
func ParseFunctionSignature(s string) (FunctionSignature, error) {
	return parseStandalone(functionSignature(), s)
}

// ParseMethodSignature parses "module:name(params) [-> returns]".
func ParseMethodSignature(s string) (MethodSignature, error) {
	return parseStandalone(methodSignature(), s)
}

// ParseVariableSignature parses "[module.]name [type]".
func ParseVariableSignature(s string) (VariableSignature, error) {
	return parseStandalone(variableSignature(), s)
}
