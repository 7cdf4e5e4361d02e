// Package ui serves a browsable HTML view of a workspace's documentation.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/hsdoc/format"
	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
	"github.com/dhamidi/hsdoc/workspace"
)

//go:embed static templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("hsdoc.ui")

type Server struct {
	workspace  *workspace.Workspace
	staticFS   fs.FS
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

type section struct {
	Title string
	Items hsdoc.BulletList
}

func NewServer(ws *workspace.Workspace) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"moduleName": func(name string) string {
			if name == registry.Global {
				return "Globals"
			}
			return name
		},
		"signature": hsdoc.SignatureString,
		"qualified": func(e registry.Entry) string {
			return e.QualifiedName()
		},
		"paragraph": func(lines []string) template.HTML {
			escaped := make([]string, len(lines))
			for i, line := range lines {
				escaped[i] = template.HTMLEscapeString(line)
			}
			return template.HTML(strings.Join(escaped, "<br>"))
		},
		"sections": func(it hsdoc.Item) []section {
			var out []section
			if c, ok := it.(hsdoc.Callable); ok {
				out = append(out,
					section{Title: "Parameters", Items: c.ParametersSection().Items},
					section{Title: "Returns", Items: c.ReturnsSection().Items})
			}
			if notes := it.NotesSection(); notes != nil {
				out = append(out, section{Title: "Notes", Items: notes.Items})
			}
			return out
		},
	}

	// render reparses per request to pick up edits under ui/templates.
	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		workspace:  ws,
		staticFS:   staticFS,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /rescan", s.handleRescan)
	s.mux.HandleFunc("GET /modules.json", s.handleModulesJSON)
	s.mux.HandleFunc("GET /problems", s.handleProblems)
	s.mux.HandleFunc("GET /m/{module...}", s.handleModule)
	s.mux.HandleFunc("GET /sidebar", s.handleSidebar)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	if err := s.workspace.ScanAll(r.Context()); err != nil {
		http.Error(w, "scan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleModulesJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := format.NewJSONEncoder(w).Encode(s.workspace.Registry()); err != nil {
		log.Errorf("encode modules: %s", err)
	}
}

func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Problems []registry.Problem
	}{
		Problems: s.workspace.Registry().Problems(),
	}
	s.render(w, "problems.html", data)
}

type ModuleViewData struct {
	Modules      []registry.Module
	Active       string
	ActiveModule *registry.Module
	ProblemCount int
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("module")
	reg := s.workspace.Registry()

	m, ok := reg.Lookup(name)
	if !ok {
		http.Error(w, "module not found", http.StatusNotFound)
		return
	}

	s.render(w, "module.html", ModuleViewData{
		Modules:      reg.Modules(),
		Active:       name,
		ActiveModule: &m,
		ProblemCount: len(reg.Problems()),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	reg := s.workspace.Registry()
	s.render(w, "index.html", ModuleViewData{
		Modules:      reg.Modules(),
		ProblemCount: len(reg.Problems()),
	})
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))
	active := r.URL.Query().Get("active")

	var modules []registry.Module
	for _, m := range s.workspace.Registry().Modules() {
		if query == "" || strings.Contains(strings.ToLower(m.Name), query) {
			modules = append(modules, m)
		}
	}

	data := struct {
		Modules []registry.Module
		Active  string
	}{
		Modules: modules,
		Active:  active,
	}
	s.render(w, "sidebar.html", data)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFS serves files from primaryPath on disk when present, falling
// back to secondary.
type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	for _, fsys := range []fs.FS{o.secondary, o.primary} {
		rd, ok := fsys.(fs.ReadDirFS)
		if !ok {
			continue
		}
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
