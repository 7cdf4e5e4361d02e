package hsdoc

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/hsdoc/ebnflex"
)

func TestFormatFunction(t *testing.T) {
	fn := Function{
		Signature: FunctionSignature{
			Module:     ModulePath{"hs", "foo"},
			Name:       "bar",
			Parameters: []ParameterSignature{{Name: "a"}, {Name: "b", IsOptional: true}},
			Returns:    []ReturnSignature{"string", "nil"},
		},
		Description: DescriptionDoc{"Does bar."},
		Parameters: ParametersDoc{Items: BulletList{
			{Lines: []string{"a - first", "continued"}},
			{Lines: []string{"b - second"}, Children: BulletList{{Lines: []string{"nested"}}}},
		}},
		Returns: ReturnsDoc{Items: BulletList{{Lines: []string{"A string"}}}},
		Notes:   &NotesDoc{Items: BulletList{{Lines: []string{"Note"}}}},
	}

	want := doc(
		"--- hs.foo.bar(a, [b]) -> string, nil",
		"--- Function",
		"--- Does bar.",
		"---",
		"--- Parameters:",
		"---  * a - first",
		"---    continued",
		"---  * b - second",
		"---     * nested",
		"---",
		"--- Returns:",
		"---  * A string",
		"---",
		"--- Notes:",
		"---  * Note",
	)
	if got := Format(fn, Dashes); got != want {
		t.Errorf("unexpected rendering:\n%s\nwant:\n%s", got, want)
	}

	slashes := Format(fn, Slashes)
	if !strings.HasPrefix(slashes, "/// hs.foo.bar") || strings.Contains(slashes, "---") {
		t.Errorf("expected the slashes dialect, got:\n%s", slashes)
	}
}

func TestFormatModuleAndRaw(t *testing.T) {
	m := Module{Name: ModulePath{"hs", "foo"}, Details: ModuleDetailsDoc{{"One."}, {"Two.", "Three."}}}
	want := doc("/// === hs.foo ===", "///", "/// One.", "///", "/// Two.", "/// Three.")
	if got := Format(m, Slashes); got != want {
		t.Errorf("unexpected rendering:\n%s", got)
	}

	raw := Unrecognised{Lines: []string{"x", "", "y"}}
	if got := Format(raw, Dashes); got != "--- x\n---\n--- y" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestSignatureString(t *testing.T) {
	tests := []struct {
		item Item
		want string
	}{
		{Constant{Signature: ConstantSignature{Module: ModulePath{"a"}, Name: "B"}}, "a.B"},
		{Method{Signature: MethodSignature{Module: ModulePath{"a", "b"}, Name: "c"}}, "a.b:c()"},
		{Constructor{Signature: ConstructorSignature{Name: "new", Returns: []ReturnSignature{}}}, "new() ->"},
		{Field{Signature: FieldSignature{Module: ModulePath{"a"}, Name: "f", Type: "number"}}, "a.f number"},
		{Variable{Signature: VariableSignature{Name: "v"}}, "v"},
	}
	for _, tt := range tests {
		if got := SignatureString(tt.item); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestParseDialect(t *testing.T) {
	for input, want := range map[string]Dialect{"dashes": Dashes, "---": Dashes, "slashes": Slashes, "///": Slashes} {
		got, err := ParseDialect(input)
		if err != nil || got != want {
			t.Errorf("%q: expected %v, got %v (%v)", input, want, got, err)
		}
	}
	if _, err := ParseDialect("hashes"); err == nil {
		t.Error("expected unknown dialect to be rejected")
	}
}

func TestRoundTripNestedBullets(t *testing.T) {
	fn := Function{
		Signature:   FunctionSignature{Name: "f", Parameters: []ParameterSignature{{Name: "x"}}},
		Description: DescriptionDoc{"F."},
		Parameters: ParametersDoc{Items: BulletList{{
			Lines: []string{"item"},
			Children: BulletList{{
				Lines:    []string{"sub-item"},
				Children: BulletList{{Lines: []string{"sub-sub-item"}}},
			}},
		}}},
		Returns: ReturnsDoc{Items: BulletList{{Lines: []string{"None"}}}},
	}
	assertRoundTrip(t, fn, Dashes)
}

func TestRoundTripGenerated(t *testing.T) {
	g, err := Grammar()
	if err != nil {
		t.Fatalf("grammar: %v", err)
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		d := Dashes
		if i%2 == 1 {
			d = Slashes
		}
		v := genDoc(r)
		assertRoundTrip(t, v, d)

		rendered := Format(v, d) + "\n"
		if !ebnflex.Match(g, GrammarStart, []byte(rendered)) {
			t.Errorf("rendering does not match %s:\n%s", GrammarStart, rendered)
		}
	}
}

func assertRoundTrip(t *testing.T, v Doc, d Dialect) {
	t.Helper()
	rendered := Format(v, d)
	blocks := Parse(rendered)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block from:\n%s\ngot %#v", rendered, blocks)
	}
	if !reflect.DeepEqual(blocks[0].Doc, v) {
		t.Fatalf("round trip changed the value:\n%s\nwant %#v\ngot  %#v", rendered, v, blocks[0].Doc)
	}
}

var (
	genWords = []string{"alpha", "beta", "Gamma", "the", "value", "x1", "is", "(optional)", "-", "nil.", "e.g."}
	genNames = []string{"foo", "bar", "_baz", "Qux", "n2", "window", "x"}
)

func genIdentifier(r *rand.Rand) Identifier {
	return Identifier(genNames[r.Intn(len(genNames))])
}

func genModule(r *rand.Rand) ModulePath {
	path := make(ModulePath, 1+r.Intn(3))
	for i := range path {
		path[i] = genIdentifier(r)
	}
	return path
}

func genOptionalModule(r *rand.Rand) ModulePath {
	if r.Intn(3) == 0 {
		return nil
	}
	return genModule(r)
}

// genText produces a non-empty line of words that does not start with "*".
func genText(r *rand.Rand) string {
	n := 1 + r.Intn(4)
	words := make([]string, n)
	for i := range words {
		words[i] = genWords[r.Intn(len(genWords))]
	}
	return strings.Join(words, " ")
}

func genLines(r *rand.Rand, max int) []string {
	ls := make([]string, 1+r.Intn(max))
	for i := range ls {
		ls[i] = genText(r)
	}
	return ls
}

func genBullets(r *rand.Rand, n, depth int) BulletList {
	list := make(BulletList, n)
	for i := range list {
		list[i].Lines = genLines(r, 3)
		if depth > 0 && r.Intn(3) == 0 {
			list[i].Children = genBullets(r, 1+r.Intn(2), depth-1)
		}
	}
	return list
}

func genNotes(r *rand.Rand) *NotesDoc {
	if r.Intn(2) == 0 {
		return nil
	}
	return &NotesDoc{Items: genBullets(r, 1+r.Intn(3), 2)}
}

func genParameters(r *rand.Rand) []ParameterSignature {
	n := r.Intn(4)
	if n == 0 {
		return nil
	}
	params := make([]ParameterSignature, n)
	for i := range params {
		params[i] = ParameterSignature{Name: genIdentifier(r), IsOptional: r.Intn(2) == 0}
	}
	return params
}

func genReturns(r *rand.Rand) []ReturnSignature {
	switch r.Intn(3) {
	case 0:
		return nil
	case 1:
		return []ReturnSignature{}
	}
	returns := make([]ReturnSignature, 1+r.Intn(2))
	for i := range returns {
		returns[i] = ReturnSignature(genText(r))
	}
	return returns
}

func genParametersDoc(r *rand.Rand, params []ParameterSignature) ParametersDoc {
	n := len(params)
	if n == 0 {
		n = 1
	}
	return ParametersDoc{Items: genBullets(r, n, 2)}
}

// genDoc produces a module or item that parses back to itself. Items whose
// signature an earlier kind would also accept are never marked deprecated,
// since the heading is the only thing that tells them apart.
func genDoc(r *rand.Rand) Doc {
	switch r.Intn(7) {
	case 0:
		details := make(ModuleDetailsDoc, 1+r.Intn(3))
		for i := range details {
			details[i] = genLines(r, 3)
		}
		return Module{Name: genModule(r), Details: details}
	case 1:
		return Constant{
			Signature:   ConstantSignature{Module: genModule(r), Name: genIdentifier(r)},
			Deprecated:  r.Intn(2) == 0,
			Description: genLines(r, 3),
			Notes:       genNotes(r),
		}
	case 2:
		params := genParameters(r)
		return Constructor{
			Signature:   ConstructorSignature{Module: genOptionalModule(r), Name: genIdentifier(r), Parameters: params, Returns: genReturns(r)},
			Deprecated:  r.Intn(2) == 0,
			Description: genLines(r, 3),
			Parameters:  genParametersDoc(r, params),
			Returns:     ReturnsDoc{Items: genBullets(r, 1+r.Intn(2), 1)},
			Notes:       genNotes(r),
		}
	case 3:
		typ := ""
		if r.Intn(2) == 0 {
			typ = genText(r)
		}
		return Field{
			Signature:   FieldSignature{Module: genModule(r), Name: genIdentifier(r), Type: typ},
			Deprecated:  typ != "" && r.Intn(2) == 0,
			Description: genLines(r, 3),
			Notes:       genNotes(r),
		}
	case 4:
		params := genParameters(r)
		return Function{
			Signature:   FunctionSignature{Module: genOptionalModule(r), Name: genIdentifier(r), Parameters: params, Returns: genReturns(r)},
			Description: genLines(r, 3),
			Parameters:  genParametersDoc(r, params),
			Returns:     ReturnsDoc{Items: genBullets(r, 1+r.Intn(2), 1)},
			Notes:       genNotes(r),
		}
	case 5:
		params := genParameters(r)
		return Method{
			Signature:   MethodSignature{Module: genModule(r), Name: genIdentifier(r), Parameters: params, Returns: genReturns(r)},
			Deprecated:  r.Intn(2) == 0,
			Description: genLines(r, 3),
			Parameters:  genParametersDoc(r, params),
			Returns:     ReturnsDoc{Items: genBullets(r, 1+r.Intn(2), 1)},
			Notes:       genNotes(r),
		}
	default:
		module := genOptionalModule(r)
		typ := ""
		if r.Intn(2) == 0 {
			typ = genText(r)
		}
		return Variable{
			Signature:   VariableSignature{Module: module, Name: genIdentifier(r), Type: typ},
			Deprecated:  module == nil && r.Intn(2) == 0,
			Description: genLines(r, 3),
			Notes:       genNotes(r),
		}
	}
}

// A deprecated item loses its kind heading, so it parses back as the first
// kind whose signature grammar accepts it.
func TestDeprecatedItemTakesFirstMatchingKind(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want Kind
	}{
		{
			name: "function",
			doc: Function{
				Signature: FunctionSignature{
					Module:     ModulePath{"hs", "foo"},
					Name:       "bar",
					Parameters: []ParameterSignature{{Name: "a"}},
				},
				Deprecated:  true,
				Description: DescriptionDoc{"Does bar."},
				Parameters:  ParametersDoc{Items: BulletList{{Lines: []string{"a - thing"}}}},
				Returns:     ReturnsDoc{Items: BulletList{{Lines: []string{"None"}}}},
			},
			want: KindConstructor,
		},
		{
			name: "field",
			doc: Field{
				Signature:   FieldSignature{Module: ModulePath{"hs", "foo"}, Name: "bar"},
				Deprecated:  true,
				Description: DescriptionDoc{"A bar."},
			},
			want: KindConstant,
		},
		{
			name: "variable",
			doc: Variable{
				Signature:   VariableSignature{Module: ModulePath{"hs", "foo"}, Name: "bar"},
				Deprecated:  true,
				Description: DescriptionDoc{"A bar."},
			},
			want: KindConstant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Parse(Format(tt.doc, Dashes))
			if len(blocks) != 1 {
				t.Fatalf("expected one block, got %d", len(blocks))
			}
			item, ok := blocks[0].Doc.(Item)
			if !ok {
				t.Fatalf("expected an item, got %T", blocks[0].Doc)
			}
			if item.Kind() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, item.Kind())
			}
		})
	}
}
