package hsdoc

import (
	pc "github.com/dhamidi/hsdoc/combinator"
	"github.com/dhamidi/hsdoc/lines"
)

type options struct {
	firstLine int
	strict    bool
}

// Option configures Parse and ParseLines.
type Option func(*options)

// WithFirstLine numbers the first line of the text n instead of 1. It is
// only used by Parse.
func WithFirstLine(n int) Option {
	return func(o *options) {
		o.firstLine = n
	}
}

// WithStrict reports blocks that match no shape as ParseError, carrying the
// failure that got farthest, instead of Unrecognised.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Parse splits text into lines and extracts every documentation block.
// It never fails: blocks that match no known shape come back as
// Unrecognised (or ParseError in strict mode).
func Parse(text string, opts ...Option) []DocBlock {
	o := options{firstLine: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return ParseLines(lines.FromText(text, o.firstLine), opts...)
}

// ParseLines extracts every documentation block from in.
func ParseLines(in lines.Lines, opts ...Option) []DocBlock {
	o := options{firstLine: 1}
	for _, opt := range opts {
		opt(&o)
	}

	skip := separators()
	block := docBlock(o.strict)

	var blocks []DocBlock
	for {
		_, in, _ = skip(in)
		if in.Empty() {
			return blocks
		}
		b, rest, err := block(in)
		if err != nil {
			// The fallback accepts any doc-comment line, and skip stopped at
			// one, so this only guards against a broken grammar.
			line, _ := in.First()
			b = DocBlock{
				Line:    line.Number,
				EndLine: line.Number,
				Doc:     ParseError{Lines: []string{line.Text}, Err: pc.AsError(err, in.Position())},
			}
			rest = in.Drop(1)
		}
		blocks = append(blocks, b)
		in = rest
	}
}

// separators skips the source between blocks: runs of non-doc lines and
// blank doc-comment lines, which no block starts with. It reports how many
// lines it skipped.
func separators() lineParser[int] {
	return func(in lines.Lines) (int, lines.Lines, error) {
		skipped := 0
		for {
			code, rest, _ := ScanNonDoc()(in)
			blanks, rest, _ := pc.Many(BlankDocLine())(rest)
			if code+len(blanks) == 0 {
				return skipped, in, nil
			}
			skipped += code + len(blanks)
			in = rest
		}
	}
}

// docRun captures a maximal run of doc-comment lines verbatim.
func docRun() lineParser[[]string] {
	return pc.OneOrMore(DocLine(rawLine()))
}

// located records the source span of whatever p matched.
func located(p lineParser[Doc]) lineParser[DocBlock] {
	return func(in lines.Lines) (DocBlock, lines.Lines, error) {
		doc, rest, err := p(in)
		if err != nil {
			return DocBlock{}, in, err
		}
		return DocBlock{
			Line:    in.Position().Line,
			EndLine: rest.Position().Line - 1,
			Doc:     doc,
		}, rest, nil
	}
}

// shapes tries the module declaration and then every item kind in priority
// order.
func shapes() lineParser[Doc] {
	alternatives := []lineParser[Doc]{
		pc.Map(moduleDeclaration(), func(m Module) Doc { return m }),
	}
	for _, item := range itemShapes() {
		alternatives = append(alternatives, pc.Map(item, func(it Item) Doc { return it }))
	}
	return pc.OneOfFarthest(alternatives...)
}

// docBlock parses one block, falling back to capturing the raw run of
// doc-comment lines when no shape matches.
func docBlock(strict bool) lineParser[DocBlock] {
	return pc.Catch(located(shapes()), func(failure *pc.Error) lineParser[DocBlock] {
		return located(pc.Map(docRun(), func(ls []string) Doc {
			if strict {
				return ParseError{Lines: ls, Err: failure}
			}
			return Unrecognised{Lines: ls}
		}))
	})
}
