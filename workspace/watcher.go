package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher rescans files of a Workspace as they change on disk.
type FileWatcher struct {
	workspace *Workspace
	w         *fsnotify.Watcher
	onChange  func(path string)
}

// NewFileWatcher watches every non-excluded directory below the workspace
// root. onChange, if not nil, is called after a file was rescanned or
// removed.
func NewFileWatcher(ws *Workspace, onChange func(path string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FileWatcher{workspace: ws, w: w, onChange: onChange}
	if err := fw.addTree(ws.RootDir()); err != nil {
		w.Close()
		return nil, err
	}
	return fw, nil
}

func (fw *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fw.workspace.cfg.Excluded(d.Name()) {
			return filepath.SkipDir
		}
		return fw.w.Add(path)
	})
}

// Run handles events until ctx is done or the watcher fails.
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer fw.w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			fw.handle(ev)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (fw *FileWatcher) handle(ev fsnotify.Event) {
	path := ev.Name
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		if fw.workspace.GetFile(path) != nil {
			fw.workspace.RemoveFile(path)
			fw.changed(path)
		}
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		if ev.Has(fsnotify.Create) && !fw.workspace.cfg.Excluded(info.Name()) {
			if err := fw.addTree(path); err != nil {
				log.Warningf("watch %s: %s", path, err)
			}
		}
		return
	}
	if fw.workspace.cfg.Excluded(info.Name()) || !fw.workspace.cfg.Matches(path) {
		return
	}
	if err := fw.workspace.ScanFile(path); err != nil {
		log.Warningf("scan %s: %s", path, err)
		return
	}
	fw.changed(path)
}

func (fw *FileWatcher) changed(path string) {
	if fw.onChange != nil {
		fw.onChange(path)
	}
}
