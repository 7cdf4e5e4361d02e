package combinator

// Peek succeeds iff p succeeds, but never consumes input.
func Peek[I Input, O any](p Parser[I, O]) Parser[I, O] {
	return func(in I) (O, I, error) {
		v, _, err := p(in)
		return v, in, err
	}
}

// Not succeeds without consuming input iff p fails. what names the
// construct that must not appear, for the error message.
func Not[I Input, O any](p Parser[I, O], what string) Parser[I, Unit] {
	return func(in I) (Unit, I, error) {
		if _, _, err := p(in); err == nil {
			return Unit{}, in, Errorf(in.Position(), "unexpected %s", what)
		}
		return Unit{}, in, nil
	}
}

// Require succeeds without consuming input iff p succeeds. On failure the
// error carries reason as its message and p's error as its cause.
func Require[I Input, O any](p Parser[I, O], reason string) Parser[I, Unit] {
	return func(in I) (Unit, I, error) {
		if _, _, err := p(in); err != nil {
			return Unit{}, in, &Error{Pos: in.Position(), Msg: reason, Err: err}
		}
		return Unit{}, in, nil
	}
}
