package source

import (
	"fmt"
	"sync"

	"actsync/internal"
)

type Mux struct {
	mu      sync.Mutex
	sources map[string]internal.Source
}

func NewMux() *Mux {
	return &Mux{
		sources: make(map[string]internal.Source),
	}
}

func (m *Mux) Get(platform string) (internal.Source, error) {
	src, ok := m.sources[platform]
	if !ok {
		return nil, fmt.Errorf("source %q is not implemented", platform)
	}
	return src, nil
}

func (m *Mux) Register(platform string, src internal.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources[platform] = src
}
