package hsdoc

import (
	"strings"

	pc "github.com/dhamidi/hsdoc/combinator"
	"github.com/dhamidi/hsdoc/lines"
)

// bulletStart is the first line of a bullet and the indentation its
// continuation lines and children must use.
type bulletStart struct {
	text   string
	indent string
}

func isBlank(r rune) bool {
	return r == ' '
}

// bulletFirstLine matches indent, an optional space, "*", one or more
// spaces and the bullet text, which may be empty. The established indent is
// indent plus the whitespace around the marker, with the marker itself
// counted as a space, so that it lines up with the first character of the
// text.
func bulletFirstLine(indent string) textParser[bulletStart] {
	return func(in pc.Text) (bulletStart, pc.Text, error) {
		rest := in
		if indent != "" {
			var err error
			if _, rest, err = pc.Literal(indent)(rest); err != nil {
				return bulletStart{}, in, pc.Errorf(in.Position(), "expected indentation of %d spaces", len(indent))
			}
		}
		lead, rest, _ := pc.Optionally(pc.Literal(" "))(rest)
		_, rest, err := pc.Literal("*")(rest)
		if err != nil {
			if _, _, merr := bulletMarker()(rest); merr == nil {
				return bulletStart{}, in, pc.Errorf(rest.Position(), "bullet marker indented too far")
			}
			return bulletStart{}, in, err
		}
		gap, rest, err := pc.TakeWhile1(isBlank, "space after '*'")(rest)
		if err != nil {
			return bulletStart{}, in, err
		}
		raw, rest, _ := rawLine()(rest)
		text := strings.TrimRight(raw, " \t")
		established := indent
		if lead != nil {
			established += *lead
		}
		established += " " + gap
		return bulletStart{text: text, indent: established}, rest, nil
	}
}

// bulletMarker matches any amount of indentation followed by "*".
func bulletMarker() textParser[string] {
	return pc.Preceded(pc.TakeWhile(isBlank), pc.Literal("*"))
}

// continuationLine matches a line at exactly the established indent that
// does not itself start a bullet.
func continuationLine(indent string) textParser[string] {
	return pc.Preceded(
		pc.Literal(indent),
		pc.Preceded(pc.Not(bulletMarker(), "bullet marker"), textLine()),
	)
}

// bulletParse is a parsed bullet and the farthest failure abandoned while
// looking for its continuation lines and children.
type bulletParse struct {
	item BulletItem
	stop *pc.Error
}

// bulletItem parses one bullet at indent, its continuation lines and, one
// level deeper, its children. Each level of nesting strictly lengthens the
// indent, so the recursion is bounded by the input.
func bulletItem(indent string) lineParser[BulletItem] {
	return pc.Map(bulletEntry(indent), func(b bulletParse) BulletItem { return b.item })
}

func bulletEntry(indent string) lineParser[bulletParse] {
	return func(in lines.Lines) (bulletParse, lines.Lines, error) {
		start, rest, err := DocLine(bulletFirstLine(indent))(in)
		if err != nil {
			return bulletParse{}, in, err
		}
		more, rest, err := pc.ManyStopped(DocLine(continuationLine(start.indent)))(rest)
		if err != nil {
			return bulletParse{}, in, err
		}
		nested, rest, err := pc.ManyStopped(bulletEntry(start.indent))(rest)
		if err != nil {
			return bulletParse{}, in, err
		}
		var children BulletList
		stop := pc.Farthest(more.Stop, nested.Stop)
		for _, child := range nested.Items {
			children = append(children, child.item)
			stop = pc.Farthest(stop, child.stop)
		}
		return bulletParse{
			item: BulletItem{
				Lines:    append([]string{start.text}, more.Items...),
				Children: children,
			},
			stop: stop,
		}, rest, nil
	}
}

// bulletList parses top-level sibling bullets up to a blank doc-comment
// line, a non-doc line or the end of input. When the list cannot end where
// the bullets stop, the error reported is the one that got farthest, which
// is usually a malformed child rather than the top level.
func bulletList() lineParser[BulletList] {
	return func(in lines.Lines) (BulletList, lines.Lines, error) {
		res, rest, err := pc.ManyStopped(bulletEntry(""))(in)
		if err != nil {
			return nil, in, err
		}
		stop := res.Stop
		var list BulletList
		for _, b := range res.Items {
			list = append(list, b.item)
			stop = pc.Farthest(stop, b.stop)
		}
		if len(list) == 0 {
			return nil, in, stop
		}
		if _, _, err := endOfBlock()(rest); err != nil {
			return nil, in, pc.Farthest(pc.AsError(err, rest.Position()), stop)
		}
		return list, rest, nil
	}
}

// section matches a blank doc-comment line, the heading line and a bullet
// list.
func section(heading string) lineParser[BulletList] {
	firstBullet := pc.Require(DocLine(pc.Preceded(bulletMarker(), rawLine())), "expected a bullet list after "+heading)
	return pc.Preceded(
		BlankDocLine(),
		pc.Preceded(DocLine(pc.Literal(heading)), pc.Preceded(firstBullet, bulletList())),
	)
}

func parametersBlock() lineParser[ParametersDoc] {
	return pc.Map(section("Parameters:"), func(l BulletList) ParametersDoc { return ParametersDoc{Items: l} })
}

func returnsBlock() lineParser[ReturnsDoc] {
	return pc.Map(section("Returns:"), func(l BulletList) ReturnsDoc { return ReturnsDoc{Items: l} })
}

func notesBlock() lineParser[*NotesDoc] {
	return pc.Optionally(pc.Map(section("Notes:"), func(l BulletList) NotesDoc { return NotesDoc{Items: l} }))
}

// description parses one or more non-blank doc-comment lines.
func description() lineParser[DescriptionDoc] {
	return pc.Map(pc.OneOrMore(DocLine(textLine())), func(ls []string) DescriptionDoc {
		return DescriptionDoc(ls)
	})
}

// ParseBulletList parses a bullet list from doc-comment text such as
// "---  * item". It is mostly useful to tools that re-parse fragments.
func ParseBulletList(text string) (BulletList, error) {
	list, _, err := bulletList()(lines.FromText(strings.TrimSuffix(text, "\n"), 1))
	return list, err
}
