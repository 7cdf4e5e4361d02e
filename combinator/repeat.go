package combinator

// repetition is the shared engine behind Many, OneOrMore and friends.
// sep and end are optional. end is checked after the last item and is never
// consumed.
type repetition[I Input, O any] struct {
	item Parser[I, O]
	sep  Parser[I, Unit]
	end  Parser[I, Unit]
	min  int
}

// run applies the item until it fails and returns the items, the remaining
// input and the failure that ended the loop. err is set only when the item
// parser makes no progress.
func (r repetition[I, O]) run(in I) (out []O, cur I, stop error, err error) {
	cur = in
	for {
		next := cur
		if r.sep != nil && len(out) > 0 {
			_, after, err := r.sep(next)
			if err != nil {
				stop = err
				break
			}
			next = after
		}
		v, after, err := r.item(next)
		if err != nil {
			stop = err
			break
		}
		if after.Len() == cur.Len() {
			return nil, in, nil, &Error{Pos: cur.Position(), Msg: ErrNoProgress.Error(), Err: ErrNoProgress}
		}
		out = append(out, v)
		cur = after
	}
	return out, cur, stop, nil
}

func (r repetition[I, O]) parse(in I) ([]O, I, error) {
	out, cur, stop, err := r.run(in)
	if err != nil {
		return nil, in, err
	}
	if len(out) < r.min {
		return nil, in, stop
	}
	if r.end != nil {
		if _, _, err := r.end(cur); err != nil {
			perr := AsError(err, cur.Position())
			if stop != nil {
				perr = Farthest(perr, AsError(stop, cur.Position()))
			}
			return nil, in, perr
		}
	}
	return out, cur, nil
}

// Many applies p zero or more times. It fails only if p succeeds without
// consuming input.
func Many[I Input, O any](p Parser[I, O]) Parser[I, []O] {
	return repetition[I, O]{item: p}.parse
}

// Stopped is the outcome of a repetition together with the failure that
// ended it.
type Stopped[O any] struct {
	Items []O
	Stop  *Error
}

// ManyStopped is Many that also reports why the repetition stopped, so that
// callers can surface a failure that got farther than their own.
func ManyStopped[I Input, O any](p Parser[I, O]) Parser[I, Stopped[O]] {
	r := repetition[I, O]{item: p}
	return func(in I) (Stopped[O], I, error) {
		out, cur, stop, err := r.run(in)
		if err != nil {
			return Stopped[O]{}, in, err
		}
		res := Stopped[O]{Items: out}
		if stop != nil {
			res.Stop = AsError(stop, cur.Position())
		}
		return res, cur, nil
	}
}

// OneOrMore applies p one or more times.
func OneOrMore[I Input, O any](p Parser[I, O]) Parser[I, []O] {
	return repetition[I, O]{item: p, min: 1}.parse
}

// ManySep applies p zero or more times, separated by sep. A separator not
// followed by an item is left unconsumed.
func ManySep[I Input, O, S any](p Parser[I, O], sep Parser[I, S]) Parser[I, []O] {
	return repetition[I, O]{item: p, sep: Discard(sep)}.parse
}

// OneOrMoreSep is ManySep requiring at least one item.
func OneOrMoreSep[I Input, O, S any](p Parser[I, O], sep Parser[I, S]) Parser[I, []O] {
	return repetition[I, O]{item: p, sep: Discard(sep), min: 1}.parse
}

// ManyTill applies p zero or more times and then requires end to match
// without consuming it.
func ManyTill[I Input, O, E any](p Parser[I, O], end Parser[I, E]) Parser[I, []O] {
	return repetition[I, O]{item: p, end: Discard(end)}.parse
}

// OneOrMoreTill is ManyTill requiring at least one item.
func OneOrMoreTill[I Input, O, E any](p Parser[I, O], end Parser[I, E]) Parser[I, []O] {
	return repetition[I, O]{item: p, end: Discard(end), min: 1}.parse
}
