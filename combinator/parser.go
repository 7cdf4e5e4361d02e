// Package combinator provides backtracking parser combinators over
// value-typed inputs.
//
// A Parser is a plain function from an input to an output, the remaining
// input and an error. Inputs are values (a window over lines, or a slice of a
// single line of text), so a failing parser simply hands back the input it was
// given and backtracking costs nothing. No combinator keeps state between
// calls; parsers are safe for concurrent use.
package combinator

// Input is a cursor over some sequence.
type Input interface {
	// Position of the next unconsumed element.
	Position() Position
	// Len is the number of unconsumed elements.
	Len() int
}

// Parser parses a prefix of I into O. On failure it returns its input
// unchanged and an error, normally an *Error.
type Parser[I Input, O any] func(in I) (O, I, error)

// Unit is the output of parsers that only recognise.
type Unit struct{}

// Tuple holds the outputs of Pair.
type Tuple[A, B any] struct {
	First  A
	Second B
}

// Pure succeeds with v without consuming input.
func Pure[I Input, O any](v O) Parser[I, O] {
	return func(in I) (O, I, error) {
		return v, in, nil
	}
}

// Fail always fails with "expected <what>".
func Fail[I Input, O any](what string) Parser[I, O] {
	return func(in I) (O, I, error) {
		var zero O
		return zero, in, Expected(in.Position(), what)
	}
}

// EOF succeeds only when the input is exhausted.
func EOF[I Input]() Parser[I, Unit] {
	return func(in I) (Unit, I, error) {
		if in.Len() != 0 {
			return Unit{}, in, Expected(in.Position(), "end of input")
		}
		return Unit{}, in, nil
	}
}

// Map transforms the output of p.
func Map[I Input, A, B any](p Parser[I, A], f func(A) B) Parser[I, B] {
	return func(in I) (B, I, error) {
		a, rest, err := p(in)
		if err != nil {
			var zero B
			return zero, in, err
		}
		return f(a), rest, nil
	}
}

// Discard runs p and drops its output.
func Discard[I Input, O any](p Parser[I, O]) Parser[I, Unit] {
	return Map(p, func(O) Unit { return Unit{} })
}

// Seq runs ps in order and collects their outputs.
func Seq[I Input, O any](ps ...Parser[I, O]) Parser[I, []O] {
	return func(in I) ([]O, I, error) {
		out := make([]O, 0, len(ps))
		cur := in
		for _, p := range ps {
			v, rest, err := p(cur)
			if err != nil {
				return nil, in, err
			}
			out = append(out, v)
			cur = rest
		}
		return out, cur, nil
	}
}

// Pair runs pa then pb.
func Pair[I Input, A, B any](pa Parser[I, A], pb Parser[I, B]) Parser[I, Tuple[A, B]] {
	return func(in I) (Tuple[A, B], I, error) {
		a, rest, err := pa(in)
		if err != nil {
			return Tuple[A, B]{}, in, err
		}
		b, rest, err := pb(rest)
		if err != nil {
			return Tuple[A, B]{}, in, err
		}
		return Tuple[A, B]{First: a, Second: b}, rest, nil
	}
}

// Preceded runs pa then pb and keeps the output of pb.
func Preceded[I Input, A, B any](pa Parser[I, A], pb Parser[I, B]) Parser[I, B] {
	return Map(Pair(pa, pb), func(t Tuple[A, B]) B { return t.Second })
}

// Terminated runs pa then pb and keeps the output of pa.
func Terminated[I Input, A, B any](pa Parser[I, A], pb Parser[I, B]) Parser[I, A] {
	return Map(Pair(pa, pb), func(t Tuple[A, B]) A { return t.First })
}

// Delimited runs open, p and close and keeps the output of p.
func Delimited[I Input, A, O, C any](open Parser[I, A], p Parser[I, O], closing Parser[I, C]) Parser[I, O] {
	return Preceded(open, Terminated(p, closing))
}

// OneOf tries ps in order; the first success wins. If every alternative
// fails, the error of the last one is returned.
func OneOf[I Input, O any](ps ...Parser[I, O]) Parser[I, O] {
	return func(in I) (O, I, error) {
		var zero O
		var last error = Expected(in.Position(), "one of no alternatives")
		for _, p := range ps {
			v, rest, err := p(in)
			if err == nil {
				return v, rest, nil
			}
			last = err
		}
		return zero, in, last
	}
}

// OneOfFarthest is OneOf, but on total failure it reports the error that
// got farthest into the input, which makes for better diagnostics.
func OneOfFarthest[I Input, O any](ps ...Parser[I, O]) Parser[I, O] {
	return func(in I) (O, I, error) {
		var zero O
		var best *Error
		for _, p := range ps {
			v, rest, err := p(in)
			if err == nil {
				return v, rest, nil
			}
			best = Farthest(best, AsError(err, in.Position()))
		}
		if best == nil {
			best = Expected(in.Position(), "one of no alternatives")
		}
		return zero, in, best
	}
}

// Optionally runs p and never fails. The output is nil if p failed.
func Optionally[I Input, O any](p Parser[I, O]) Parser[I, *O] {
	return func(in I) (*O, I, error) {
		v, rest, err := p(in)
		if err != nil {
			return nil, in, nil
		}
		return &v, rest, nil
	}
}

// Catch runs p; if it fails, recover is asked for a parser to run from the
// same position instead. It is used to turn a hard failure into a substitute
// value.
func Catch[I Input, O any](p Parser[I, O], recover func(err *Error) Parser[I, O]) Parser[I, O] {
	return func(in I) (O, I, error) {
		v, rest, err := p(in)
		if err == nil {
			return v, rest, nil
		}
		return recover(AsError(err, in.Position()))(in)
	}
}

// Verify runs p and then check on its output. A check error turns the
// result into a failure positioned where p started.
func Verify[I Input, O any](p Parser[I, O], check func(O) error) Parser[I, O] {
	return func(in I) (O, I, error) {
		v, rest, err := p(in)
		if err != nil {
			return v, in, err
		}
		if err := check(v); err != nil {
			var zero O
			return zero, in, &Error{Pos: in.Position(), Msg: err.Error(), Err: err}
		}
		return v, rest, nil
	}
}
