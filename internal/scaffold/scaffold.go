package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samus-io/stephelper/internal/logger"
	"github.com/samus-io/stephelper/internal/manifest"
	"github.com/samus-io/stephelper/internal/stepid"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Permission bits for created entries.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// DefaultMaxAttempts bounds how many identifiers are tried when the root
// directory already exists.
const DefaultMaxAttempts = 3

// Options tunes CreateStep. The zero value is usable.
type Options struct {
	IDs         stepid.Generator
	MaxAttempts int
	Log         *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.IDs == nil {
		o.IDs = stepid.Default
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	return o
}

// Result lists what a CreateStep call actually created, relative to the
// filesystem root. It is populated even when CreateStep returns an error.
type Result struct {
	ID    string
	Dirs  []string
	Files []string

	mu sync.Mutex
}

func (r *Result) addDir(p string) {
	r.mu.Lock()
	r.Dirs = append(r.Dirs, p)
	r.mu.Unlock()
}

func (r *Result) addFile(p string) {
	r.mu.Lock()
	r.Files = append(r.Files, p)
	r.mu.Unlock()
}

func (r *Result) sort() {
	sort.Strings(r.Dirs)
	sort.Strings(r.Files)
}

// Complete reports whether every entry the variant describes was created.
func (r *Result) Complete(v *manifest.Variant) bool {
	return len(r.Dirs) == 1+len(v.Dirs()) && len(r.Files) == 1+len(v.Languages)
}

// CreateStep scaffolds one step for variant v inside fsys.
func CreateStep(ctx context.Context, fsys afero.Fs, v *manifest.Variant, props manifest.Properties, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	res := &Result{}

	body, err := props.Encode()
	if err != nil {
		return res, err
	}

	id, err := createRoot(fsys, opts)
	if err != nil {
		return res, err
	}
	res.ID = id
	res.addDir(id)
	log := opts.Log.With("step_id", id, "variant", v.Name)
	log.Debug("created step root")

	if err := ctx.Err(); err != nil {
		return res, err
	}

	// Subdirectories.
	var dirTasks []task
	for _, name := range v.Dirs() {
		p := filepath.Join(id, name)
		dirTasks = append(dirTasks, task{path: p, run: func() error {
			if err := fsys.Mkdir(p, DirPerm); err != nil {
				return fmt.Errorf("creating directory %s: %w", p, err)
			}
			res.addDir(p)
			return nil
		}})
	}
	if err := runStage(log, dirTasks); err != nil {
		res.sort()
		return res, err
	}

	if err := ctx.Err(); err != nil {
		res.sort()
		return res, err
	}

	// Files.
	fileTasks := []task{writeTask(fsys, res, filepath.Join(id, manifest.PropertiesFile), body)}
	for _, l := range v.Languages {
		p := filepath.Join(id, l.Code, manifest.PlaceholderFile)
		fileTasks = append(fileTasks, writeTask(fsys, res, p, []byte(l.Content)))
	}
	err = runStage(log, fileTasks)
	res.sort()
	if err != nil {
		return res, err
	}

	log.Info("step created", "dirs", len(res.Dirs), "files", len(res.Files))
	return res, nil
}

// createRoot draws identifiers until one names a directory that does not
// exist yet. Errors other than an existing entry stop immediately.
func createRoot(fsys afero.Fs, opts Options) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		id, err := opts.IDs.Generate()
		if err != nil {
			return "", err
		}

		err = fsys.Mkdir(id, DirPerm)
		if err == nil {
			return id, nil
		}
		lastErr = fmt.Errorf("creating step directory %s: %w", id, err)
		if !errors.Is(err, fs.ErrExist) {
			return "", lastErr
		}
		opts.Log.Warn("step id already taken, drawing another", "step_id", id, "attempt", attempt)
	}
	return "", fmt.Errorf("no free step id after %d attempts: %w", opts.MaxAttempts, lastErr)
}

type task struct {
	path string
	run  func() error
}

func writeTask(fsys afero.Fs, res *Result, p string, data []byte) task {
	return task{path: p, run: func() error {
		if err := afero.WriteFile(fsys, p, data, FilePerm); err != nil {
			return fmt.Errorf("writing %s: %w", p, err)
		}
		res.addFile(p)
		return nil
	}}
}

// runStage runs every task concurrently and waits for all of them. Failures
// are logged individually and returned combined; the group is only a barrier.
func runStage(log *logger.Logger, tasks []task) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs error
	)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := t.run(); err != nil {
				log.Error("scaffold operation failed", "path", t.path, "error", err)
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
