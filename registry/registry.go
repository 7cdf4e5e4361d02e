// Package registry aggregates documentation blocks from many files into
// modules.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/hsdoc/hsdoc"
)

// Global is the name of the module that collects items with no module,
// declared before any module in their file.
const Global = ""

// Module is a documented module and its items.
type Module struct {
	Name    string
	Details hsdoc.ModuleDetailsDoc // nil unless declared
	File    string                 // location of the declaration
	Line    int
	Items   []Entry
}

// Declared reports whether the module has a "=== name ===" declaration.
func (m Module) Declared() bool {
	return m.File != ""
}

// Entry is an item and where it was documented.
type Entry struct {
	Module  string
	File    string
	Line    int
	EndLine int
	Item    hsdoc.Item
}

// QualifiedName returns module.name, or module:name for methods.
func (e Entry) QualifiedName() string {
	return Qualify(e.Module, e.Item)
}

// Qualify joins a module name and an item name the way signatures do.
func Qualify(module string, it hsdoc.Item) string {
	if module == Global {
		return string(it.ItemName())
	}
	sep := "."
	if it.Kind() == hsdoc.KindMethod {
		sep = ":"
	}
	return module + sep + string(it.ItemName())
}

// ProblemKind classifies a Problem.
type ProblemKind int

const (
	ProblemUnrecognised ProblemKind = iota
	ProblemParseError
	ProblemDuplicateModule
	ProblemDuplicateItem
	ProblemUndeclaredModule
)

var problemKindNames = [...]string{"unrecognised", "parse-error", "duplicate-module", "duplicate-item", "undeclared-module"}

func (k ProblemKind) String() string {
	if k < 0 || int(k) >= len(problemKindNames) {
		return fmt.Sprintf("ProblemKind(%d)", int(k))
	}
	return problemKindNames[k]
}

// Problem is something wrong with the documentation of one block.
type Problem struct {
	Kind    ProblemKind
	File    string
	Line    int
	EndLine int
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s:%d: %s", p.File, p.Line, p.Message)
}

// Registry holds the blocks of every added file. It is safe for concurrent
// use; the module view is rebuilt whenever a file changes.
type Registry struct {
	mu       sync.RWMutex
	files    map[string][]hsdoc.DocBlock
	modules  map[string]*Module
	problems []Problem
	rebuilds int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		files:   make(map[string][]hsdoc.DocBlock),
		modules: make(map[string]*Module),
	}
}

// Add records the blocks parsed from file, replacing earlier ones.
func (r *Registry) Add(file string, blocks []hsdoc.DocBlock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[file] = blocks
	r.rebuildLocked()
}

// AddAll records the blocks of several files at once and rebuilds the module
// view a single time.
func (r *Registry) AddAll(files map[string][]hsdoc.DocBlock) {
	if len(files) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for file, blocks := range files {
		r.files[file] = blocks
	}
	r.rebuildLocked()
}

// Remove forgets file.
func (r *Registry) Remove(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, file)
	r.rebuildLocked()
}

// Files returns the added files, sorted.
func (r *Registry) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedFilesLocked()
}

func (r *Registry) sortedFilesLocked() []string {
	files := make([]string, 0, len(r.files))
	for f := range r.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Modules returns every module sorted by name. The global module is only
// present if it has items.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the module called name.
func (r *Registry) Lookup(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		return Module{}, false
	}
	return *m, true
}

// Item finds an item by qualified name: "hs.foo.bar", "hs.foo:bar" or,
// for the global module, "bar".
func (r *Registry) Item(qualified string) (Entry, bool) {
	module := Global
	if i := strings.LastIndexAny(qualified, ".:"); i >= 0 {
		module = qualified[:i]
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[module]
	if !ok {
		return Entry{}, false
	}
	for _, e := range m.Items {
		if e.QualifiedName() == qualified {
			return e, true
		}
	}
	return Entry{}, false
}

// Problems returns every problem, ordered by file and line.
func (r *Registry) Problems() []Problem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Problem, len(r.problems))
	copy(out, r.problems)
	return out
}

func (r *Registry) rebuildLocked() {
	r.rebuilds++
	modules := make(map[string]*Module)
	var problems []Problem
	files := r.sortedFilesLocked()

	for _, file := range files {
		for _, b := range r.files[file] {
			m, ok := b.Doc.(hsdoc.Module)
			if !ok {
				continue
			}
			name := m.Name.String()
			if prev, dup := modules[name]; dup {
				problems = append(problems, Problem{
					Kind:    ProblemDuplicateModule,
					File:    file,
					Line:    b.Line,
					EndLine: b.EndLine,
					Message: fmt.Sprintf("module %s already declared at %s:%d", name, prev.File, prev.Line),
				})
				continue
			}
			modules[name] = &Module{Name: name, Details: m.Details, File: file, Line: b.Line}
		}
	}

	for _, file := range files {
		current := Global
		for _, b := range r.files[file] {
			switch doc := b.Doc.(type) {
			case hsdoc.Module:
				current = doc.Name.String()
			case hsdoc.Unrecognised:
				problems = append(problems, Problem{
					Kind:    ProblemUnrecognised,
					File:    file,
					Line:    b.Line,
					EndLine: b.EndLine,
					Message: "unrecognised documentation block",
				})
			case hsdoc.ParseError:
				problems = append(problems, Problem{
					Kind:    ProblemParseError,
					File:    file,
					Line:    b.Line,
					EndLine: b.EndLine,
					Message: doc.Err.Msg,
				})
			case hsdoc.Item:
				name := doc.ModuleName().String()
				if name == Global {
					name = current
				}
				m, ok := modules[name]
				if !ok {
					m = &Module{Name: name}
					modules[name] = m
					if name != Global {
						problems = append(problems, Problem{
							Kind:    ProblemUndeclaredModule,
							File:    file,
							Line:    b.Line,
							EndLine: b.EndLine,
							Message: fmt.Sprintf("module %s is not declared", name),
						})
					}
				}
				entry := Entry{Module: name, File: file, Line: b.Line, EndLine: b.EndLine, Item: doc}
				if prev, dup := findItem(m.Items, doc); dup {
					problems = append(problems, Problem{
						Kind:    ProblemDuplicateItem,
						File:    file,
						Line:    b.Line,
						EndLine: b.EndLine,
						Message: fmt.Sprintf("%s %s already documented at %s:%d", doc.Kind(), entry.QualifiedName(), prev.File, prev.Line),
					})
					continue
				}
				m.Items = append(m.Items, entry)
			}
		}
	}

	sort.SliceStable(problems, func(i, j int) bool {
		if problems[i].File != problems[j].File {
			return problems[i].File < problems[j].File
		}
		return problems[i].Line < problems[j].Line
	})
	r.modules = modules
	r.problems = problems
}

func findItem(entries []Entry, it hsdoc.Item) (Entry, bool) {
	for _, e := range entries {
		if e.Item.Kind() == it.Kind() && e.Item.ItemName() == it.ItemName() {
			return e, true
		}
	}
	return Entry{}, false
}
