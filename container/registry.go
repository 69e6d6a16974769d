// SPDX-License-Identifier: EPL-2.0

package container

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds container formats in registration order, which is also the
// probing order.
type Registry struct {
	formats []Format

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		mtx: &sync.Mutex{},
	}
}

// Register adds f, replacing a format of the same name.
func (r *Registry) Register(f Format) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i, old := range r.formats {
		if old.Name() == f.Name() {
			r.formats[i] = f
			return
		}
	}
	r.formats = append(r.formats, f)
}

func (r *Registry) Get(name string) (Format, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, f := range r.formats {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Detect picks the first format whose probe accepts header, falling back to
// the file extension.
func (r *Registry) Detect(header []byte, ext string) (Format, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, f := range r.formats {
		if f.Probe(header) {
			return f, nil
		}
	}

	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, f := range r.formats {
		if ext != "" && slices.Contains(f.Extensions(), ext) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
}

// Names lists the formats in probing order.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, len(r.formats))
	for i, f := range r.formats {
		names[i] = f.Name()
	}
	return names
}
