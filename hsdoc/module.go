package hsdoc

import (
	pc "github.com/dhamidi/hsdoc/combinator"
	"github.com/dhamidi/hsdoc/lines"
)

// banner matches "=== hs.foo ===".
func banner() textParser[ModulePath] {
	return pc.Delimited(
		pc.Pair(pc.Literal("==="), pc.Spaces1()),
		moduleName(),
		pc.Pair(pc.Spaces1(), pc.Literal("===")),
	)
}

// moduleDeclaration parses a banner line, a blank line and one or more
// paragraphs separated by blank lines.
func moduleDeclaration() lineParser[Module] {
	return func(in lines.Lines) (Module, lines.Lines, error) {
		name, rest, err := DocLine(banner())(in)
		if err != nil {
			return Module{}, in, err
		}
		if _, rest, err = BlankDocLine()(rest); err != nil {
			return Module{}, in, err
		}
		paragraphs, rest, err := pc.OneOrMoreSep(description(), pc.OneOrMore(BlankDocLine()))(rest)
		if err != nil {
			return Module{}, in, err
		}
		return Module{Name: name, Details: ModuleDetailsDoc(paragraphs)}, rest, nil
	}
}

// ModuleParser parses a module declaration block.
func ModuleParser() pc.Parser[lines.Lines, Module] {
	return moduleDeclaration()
}
