// Package workspace keeps the parsed documentation of a source tree up to
// date and serves it to editors.
package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/hsdoc/config"
	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

var log = commonlog.GetLogger("hsdoc.workspace")

// Workspace is a root directory and the documentation blocks of every
// matching file below it.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	cfg     config.Config
	files   map[string]*File
	reg     *registry.Registry
}

// File is a scanned source file.
type File struct {
	Path    string
	Content []byte
	Blocks  []hsdoc.DocBlock
}

func New(rootDir string, cfg config.Config) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		cfg:     cfg,
		files:   make(map[string]*File),
		reg:     registry.New(),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

func (w *Workspace) Config() config.Config {
	return w.cfg
}

// Registry returns the module view of the scanned files.
func (w *Workspace) Registry() *registry.Registry {
	return w.reg
}

// Paths lists the files below the root that match the configured
// extensions, skipping excluded directories.
func (w *Workspace) Paths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("walk %s: %s", path, err)
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && w.cfg.Excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.cfg.Excluded(d.Name()) || !w.cfg.Matches(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

// ScanAll parses every matching file using up to Config().Workers
// goroutines. Unreadable files are logged and skipped.
func (w *Workspace) ScanAll(ctx context.Context) error {
	paths, err := w.Paths()
	if err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		parsed = make(map[string]*File, len(paths))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Workers)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				log.Warningf("scan %s: %s", path, err)
				return nil
			}
			f := w.parse(path, content)
			mu.Lock()
			parsed[path] = f
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	blocks := make(map[string][]hsdoc.DocBlock, len(parsed))
	w.mu.Lock()
	for path, f := range parsed {
		w.files[path] = f
		blocks[path] = f.Blocks
	}
	w.mu.Unlock()
	w.reg.AddAll(blocks)

	log.Infof("scanned %d files below %s", len(paths), w.rootDir)
	return nil
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile reparses path from content.
func (w *Workspace) UpdateFile(path string, content []byte) {
	f := w.parse(path, content)

	w.mu.Lock()
	w.files[path] = f
	w.mu.Unlock()

	w.reg.Add(path, f.Blocks)
}

func (w *Workspace) parse(path string, content []byte) *File {
	var opts []hsdoc.Option
	if w.cfg.Strict {
		opts = append(opts, hsdoc.WithStrict())
	}
	blocks := hsdoc.Parse(string(content), opts...)
	log.Debugf("parsed %s: %d blocks", path, len(blocks))
	return &File{Path: path, Content: content, Blocks: blocks}
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	delete(w.files, path)
	w.mu.Unlock()
	w.reg.Remove(path)
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Diagnostics returns the registry problems located in path.
func (w *Workspace) Diagnostics(path string) []registry.Problem {
	var out []registry.Problem
	for _, p := range w.reg.Problems() {
		if p.File == path {
			out = append(out, p)
		}
	}
	return out
}

// BlockAt returns the block of path that spans the 1-based line.
func (w *Workspace) BlockAt(path string, line int) (hsdoc.DocBlock, bool) {
	f := w.GetFile(path)
	if f == nil {
		return hsdoc.DocBlock{}, false
	}
	for _, b := range f.Blocks {
		if b.Line <= line && line <= b.EndLine {
			return b, true
		}
	}
	return hsdoc.DocBlock{}, false
}

type CompletionKind int

const (
	CompletionKindModule CompletionKind = iota
	CompletionKindConstant
	CompletionKindConstructor
	CompletionKindField
	CompletionKindFunction
	CompletionKindMethod
	CompletionKindVariable
)

type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	Documentation string
}

func completionKind(k hsdoc.Kind) CompletionKind {
	switch k {
	case hsdoc.KindConstant:
		return CompletionKindConstant
	case hsdoc.KindConstructor:
		return CompletionKindConstructor
	case hsdoc.KindField:
		return CompletionKindField
	case hsdoc.KindMethod:
		return CompletionKindMethod
	case hsdoc.KindVariable:
		return CompletionKindVariable
	default:
		return CompletionKindFunction
	}
}

// CompletionsAtPoint completes the member after "module." or "module:" at
// the 1-based line and 0-based column of path. A colon offers only
// methods; a dot offers the other items and the submodules.
func (w *Workspace) CompletionsAtPoint(path string, line, col int) []CompletionItem {
	f := w.GetFile(path)
	if f == nil {
		return nil
	}
	module, trigger, ok := moduleBeforePoint(f.Content, line, col)
	if !ok {
		return nil
	}

	var items []CompletionItem
	if m, found := w.reg.Lookup(module); found {
		for _, e := range m.Items {
			isMethod := e.Item.Kind() == hsdoc.KindMethod
			if isMethod != (trigger == ':') {
				continue
			}
			items = append(items, CompletionItem{
				Label:         string(e.Item.ItemName()),
				Kind:          completionKind(e.Item.Kind()),
				Detail:        hsdoc.SignatureString(e.Item),
				Documentation: strings.Join(e.Item.DescriptionLines(), "\n"),
			})
		}
	}
	if trigger == '.' {
		items = append(items, w.submodules(module)...)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func (w *Workspace) submodules(parent string) []CompletionItem {
	var items []CompletionItem
	prefix := parent + "."
	for _, m := range w.reg.Modules() {
		rest, ok := strings.CutPrefix(m.Name, prefix)
		if !ok || strings.Contains(rest, ".") {
			continue
		}
		items = append(items, CompletionItem{
			Label:  rest,
			Kind:   CompletionKindModule,
			Detail: m.Name,
		})
	}
	return items
}

// moduleBeforePoint finds the nearest "." or ":" before col on line and
// returns the dotted module path preceding it.
func moduleBeforePoint(content []byte, line, col int) (string, byte, bool) {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return "", 0, false
	}
	text := lines[line-1]
	if col > len(text) {
		col = len(text)
	}

	trigger := -1
	for i := col - 1; i >= 0; i-- {
		c := text[i]
		if c == '.' || c == ':' {
			trigger = i
			break
		}
		if !isIdentByte(c) {
			return "", 0, false
		}
	}
	if trigger <= 0 {
		return "", 0, false
	}

	start := trigger
	for start > 0 && (isIdentByte(text[start-1]) || text[start-1] == '.') {
		start--
	}
	module := strings.Trim(text[start:trigger], ".")
	if module == "" {
		return "", 0, false
	}
	if _, err := hsdoc.NewModulePath(module); err != nil {
		return "", 0, false
	}
	return module, text[trigger], true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
