package destination

import (
	"fmt"
	"sync"

	"actsync/internal"
)

type Mux struct {
	mu    sync.Mutex
	dests map[string]internal.Destination
}

func NewMux() *Mux {
	return &Mux{
		dests: make(map[string]internal.Destination),
	}
}

func (m *Mux) Get(name string) (internal.Destination, error) {
	dest, ok := m.dests[name]
	if !ok {
		return nil, fmt.Errorf("destination %q is not implemented", name)
	}
	return dest, nil
}

func (m *Mux) Register(dest internal.Destination) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dests[dest.Name()] = dest
}
