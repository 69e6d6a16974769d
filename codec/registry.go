// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps codec ids to codecs.
type Registry struct {
	codecs map[ID]Codec

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[ID]Codec),
		mtx:    &sync.Mutex{},
	}
}

// Register adds c for every id it reports, replacing earlier entries.
func (r *Registry) Register(c Codec) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, id := range c.IDs() {
		r.codecs[id] = c
	}
}

func (r *Registry) Get(id ID) (Codec, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	c, ok := r.codecs[id]
	return c, ok
}

// Find is Get returning ErrDecoderNotFound for unknown ids.
func (r *Registry) Find(id ID) (Codec, error) {
	c, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDecoderNotFound, id)
	}
	return c, nil
}

// Names lists the registered codec names, sorted.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	seen := make(map[string]bool)
	names := make([]string, 0, len(r.codecs))
	for _, c := range r.codecs {
		if !seen[c.Name()] {
			seen[c.Name()] = true
			names = append(names, c.Name())
		}
	}
	sort.Strings(names)
	return names
}
