package hsdoc

import (
	"fmt"

	pc "github.com/dhamidi/hsdoc/combinator"
	"github.com/dhamidi/hsdoc/lines"
)

// header is what every item starts with: signature line, heading line and
// description.
type header[S any] struct {
	signature   S
	deprecated  bool
	description DescriptionDoc
}

func itemHeader[S any](signature textParser[S], kind Kind) lineParser[header[S]] {
	return func(in lines.Lines) (header[S], lines.Lines, error) {
		var h header[S]
		var err error
		rest := in
		if h.signature, rest, err = DocLine(signature)(rest); err != nil {
			return header[S]{}, in, err
		}
		if h.deprecated, rest, err = DocLine(deprecableHeading(kind))(rest); err != nil {
			return header[S]{}, in, err
		}
		if h.description, rest, err = description()(rest); err != nil {
			return header[S]{}, in, err
		}
		return h, rest, nil
	}
}

// valueItem assembles constants, fields and variables: header and optional
// notes.
func valueItem[S any](signature textParser[S], kind Kind, build func(header[S], *NotesDoc) Item) lineParser[Item] {
	return func(in lines.Lines) (Item, lines.Lines, error) {
		h, rest, err := itemHeader(signature, kind)(in)
		if err != nil {
			return nil, in, err
		}
		notes, rest, _ := notesBlock()(rest)
		return build(h, notes), rest, nil
	}
}

type callableBody struct {
	parameters ParametersDoc
	returns    ReturnsDoc
	notes      *NotesDoc
}

// callableItem assembles constructors, functions and methods: header,
// Parameters, Returns and optional Notes. The sections are verified against
// the signature's parameter count, so a mismatch is reported where the
// sections start.
func callableItem[S any](signature textParser[S], kind Kind, build func(header[S], callableBody) Item) lineParser[Item] {
	return func(in lines.Lines) (Item, lines.Lines, error) {
		h, rest, err := itemHeader(signature, kind)(in)
		if err != nil {
			return nil, in, err
		}
		checked := pc.Verify(callableSections(), func(b callableBody) error {
			return checkParameterCount(build(h, b))
		})
		body, rest, err := checked(rest)
		if err != nil {
			return nil, in, err
		}
		return build(h, body), rest, nil
	}
}

func callableSections() lineParser[callableBody] {
	return func(in lines.Lines) (callableBody, lines.Lines, error) {
		var body callableBody
		var err error
		rest := in
		if body.parameters, rest, err = parametersBlock()(rest); err != nil {
			return callableBody{}, in, err
		}
		if body.returns, rest, err = returnsBlock()(rest); err != nil {
			return callableBody{}, in, err
		}
		body.notes, rest, _ = notesBlock()(rest)
		return body, rest, nil
	}
}

// checkParameterCount enforces that a callable documents each declared
// parameter with one bullet, or has exactly one bullet (conventionally
// "None") when it declares none.
func checkParameterCount(it Item) error {
	callable, ok := it.(Callable)
	if !ok {
		return nil
	}
	declared := len(callable.SignatureParameters())
	documented := len(callable.ParametersSection().Items)
	want := declared
	if declared == 0 {
		want = 1
	}
	if documented != want {
		return fmt.Errorf("%w: %s %s declares %d parameters but Parameters lists %d items",
			ErrParameterCount, it.Kind(), it.ItemName(), declared, documented)
	}
	return nil
}

func constantItem() lineParser[Item] {
	return valueItem(constantSignature(), KindConstant, func(h header[ConstantSignature], notes *NotesDoc) Item {
		return Constant{Signature: h.signature, Deprecated: h.deprecated, Description: h.description, Notes: notes}
	})
}

func constructorItem() lineParser[Item] {
	return callableItem(constructorSignature(), KindConstructor, func(h header[ConstructorSignature], b callableBody) Item {
		return Constructor{
			Signature:   h.signature,
			Deprecated:  h.deprecated,
			Description: h.description,
			Parameters:  b.parameters,
			Returns:     b.returns,
			Notes:       b.notes,
		}
	})
}

func fieldItem() lineParser[Item] {
	return valueItem(fieldSignature(), KindField, func(h header[FieldSignature], notes *NotesDoc) Item {
		return Field{Signature: h.signature, Deprecated: h.deprecated, Description: h.description, Notes: notes}
	})
}

func functionItem() lineParser[Item] {
	return callableItem(functionSignature(), KindFunction, func(h header[FunctionSignature], b callableBody) Item {
		return Function{
			Signature:   h.signature,
			Deprecated:  h.deprecated,
			Description: h.description,
			Parameters:  b.parameters,
			Returns:     b.returns,
			Notes:       b.notes,
		}
	})
}

func methodItem() lineParser[Item] {
	return callableItem(methodSignature(), KindMethod, func(h header[MethodSignature], b callableBody) Item {
		return Method{
			Signature:   h.signature,
			Deprecated:  h.deprecated,
			Description: h.description,
			Parameters:  b.parameters,
			Returns:     b.returns,
			Notes:       b.notes,
		}
	})
}

func variableItem() lineParser[Item] {
	return valueItem(variableSignature(), KindVariable, func(h header[VariableSignature], notes *NotesDoc) Item {
		return Variable{Signature: h.signature, Deprecated: h.deprecated, Description: h.description, Notes: notes}
	})
}

// itemShapes lists the item grammars in priority order. Fields come before
// functions and methods, and constants before everything, so that the
// shorter grammars never claim a longer signature.
func itemShapes() []lineParser[Item] {
	return []lineParser[Item]{
		constantItem(),
		constructorItem(),
		fieldItem(),
		functionItem(),
		methodItem(),
		variableItem(),
	}
}

// ItemParser is the ordered alternation over every item kind.
func ItemParser() pc.Parser[lines.Lines, Item] {
	return pc.OneOf(itemShapes()...)
}
