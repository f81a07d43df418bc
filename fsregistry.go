// Copyright (c) 2014 Alex Kalyvitis

package handlebars

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quintans/faults"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FSRegistry resolves named templates and partials by reading ".hbs"
// files from an afero.Fs, the same seam quintans-copycat uses to swap
// afero.NewOsFs() for afero.NewMemMapFs() in tests: production renders
// against the real filesystem, tests preload an in-memory one.
type FSRegistry struct {
	*Registry
	fs  afero.Fs
	dir string
}

// NewFSRegistry wraps a fresh Registry with filesystem-backed template
// loading rooted at dir within fs.
func NewFSRegistry(fs afero.Fs, dir string) *FSRegistry {
	return &FSRegistry{Registry: NewRegistry(), fs: fs, dir: dir}
}

// LoadDir walks dir (non-recursively) registering every "*.hbs" file as a
// named template, the stem (filename without extension) becoming the
// registry name.
func (r *FSRegistry) LoadDir() error {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		return faults.Wrap(fmt.Errorf("reading template directory %q: %w", r.dir, err))
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".hbs") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".hbs")
		if err := r.loadFile(name, filepath.Join(r.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (r *FSRegistry) loadFile(name, path string) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return faults.Wrap(fmt.Errorf("reading template %q: %w", path, err))
	}
	tmpl, err := ParseTemplate(name, string(data))
	if err != nil {
		return faults.Wrap(fmt.Errorf("parsing template %q: %w", path, err))
	}
	r.RegisterTemplate(name, tmpl)
	return nil
}

// Manifest is the YAML front matter describing a set of named templates
// and partials to preload, grounded on gxo's playbook-loading style
// (a single declarative document drives registration instead of a
// directory convention).
type Manifest struct {
	Templates map[string]string `yaml:"templates"`
	Partials  map[string]string `yaml:"partials"`
}

// LoadManifest reads a YAML manifest from path within fs and registers
// every named template and partial it declares.
func (r *FSRegistry) LoadManifest(path string) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return faults.Wrap(fmt.Errorf("reading manifest %q: %w", path, err))
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return faults.Wrap(fmt.Errorf("decoding manifest %q: %w", path, err))
	}
	for name, src := range m.Templates {
		tmpl, err := ParseTemplate(name, src)
		if err != nil {
			return faults.Wrap(fmt.Errorf("parsing template %q from manifest: %w", name, err))
		}
		r.RegisterTemplate(name, tmpl)
	}
	for name, src := range m.Partials {
		tmpl, err := ParseTemplate(name, src)
		if err != nil {
			return faults.Wrap(fmt.Errorf("parsing partial %q from manifest: %w", name, err))
		}
		r.RegisterTemplate(name, tmpl)
	}
	return nil
}
