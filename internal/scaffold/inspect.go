package scaffold

import (
	"fmt"
	"path/filepath"

	"github.com/samus-io/stephelper/internal/manifest"
	"github.com/samus-io/stephelper/internal/stepid"
	"github.com/spf13/afero"
)

// Report describes how an existing step differs from what a variant would
// have scaffolded.
type Report struct {
	ID              string
	ValidID         bool
	MissingDirs     []string
	MissingFiles    []string
	PropertiesError error
	PropertyIssues  []manifest.ValidationIssue
}

// OK reports whether the step has no problems.
func (r *Report) OK() bool {
	return r.ValidID &&
		len(r.MissingDirs) == 0 &&
		len(r.MissingFiles) == 0 &&
		r.PropertiesError == nil &&
		len(r.PropertyIssues) == 0
}

// Inspect checks the step named id inside fsys against variant v. Placeholder
// contents are not compared; authors are expected to edit them. The error
// return is reserved for the step root itself being unusable.
func Inspect(fsys afero.Fs, id string, v *manifest.Variant) (*Report, error) {
	isDir, err := afero.IsDir(fsys, id)
	if err != nil {
		return nil, fmt.Errorf("reading step %s: %w", id, err)
	}
	if !isDir {
		return nil, fmt.Errorf("step %s is not a directory", id)
	}

	r := &Report{ID: id, ValidID: stepid.Valid(id)}

	for _, name := range v.Dirs() {
		p := filepath.Join(id, name)
		if ok, _ := afero.IsDir(fsys, p); !ok {
			r.MissingDirs = append(r.MissingDirs, p)
		}
	}
	for _, l := range v.Languages {
		p := filepath.Join(id, l.Code, manifest.PlaceholderFile)
		if ok, _ := afero.Exists(fsys, p); !ok {
			r.MissingFiles = append(r.MissingFiles, p)
		}
	}

	propsPath := filepath.Join(id, manifest.PropertiesFile)
	data, err := afero.ReadFile(fsys, propsPath)
	if err != nil {
		r.MissingFiles = append(r.MissingFiles, propsPath)
		return r, nil
	}
	result, err := manifest.ValidateProperties(data)
	if err != nil {
		r.PropertiesError = fmt.Errorf("%s: %w", propsPath, err)
		return r, nil
	}
	r.PropertyIssues = result.Issues
	return r, nil
}
