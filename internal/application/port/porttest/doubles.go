package porttest

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
)

// Detector returns a fixed descriptor list.
type Detector struct {
	Descriptors []entity.Descriptor
	Calls       int
}

// Detect implements port.Detector.
func (d *Detector) Detect(context.Context) []entity.Descriptor {
	d.Calls++
	return d.Descriptors
}

// PreferenceStore is an in-memory usecase.PreferenceStore.
type PreferenceStore struct {
	Preferred entity.EngineID
	SetErr    error
}

// EnginePreference implements usecase.PreferenceStore.
func (p *PreferenceStore) EnginePreference() entity.EngineID { return p.Preferred }

// SetEnginePreference implements usecase.PreferenceStore.
func (p *PreferenceStore) SetEnginePreference(_ context.Context, id entity.EngineID) error {
	if p.SetErr != nil {
		return p.SetErr
	}
	p.Preferred = id
	return nil
}

// SnapshotRepo is an in-memory repository.TabSnapshotRepository.
type SnapshotRepo struct {
	mu       sync.Mutex
	payloads map[entity.TabID][]byte
	saves    int
	SaveErr  error
	LoadErr  error
}

// NewSnapshotRepo creates an empty in-memory snapshot repository.
func NewSnapshotRepo() *SnapshotRepo {
	return &SnapshotRepo{payloads: make(map[entity.TabID][]byte)}
}

// Save implements repository.TabSnapshotRepository.
func (r *SnapshotRepo) Save(_ context.Context, tabID entity.TabID, payload []byte, _ time.Time) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	r.payloads[tabID] = buf
	r.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (r *SnapshotRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Load implements repository.TabSnapshotRepository.
func (r *SnapshotRepo) Load(_ context.Context, tabID entity.TabID) ([]byte, error) {
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payloads[tabID], nil
}

// Delete implements repository.TabSnapshotRepository.
func (r *SnapshotRepo) Delete(_ context.Context, tabID entity.TabID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.payloads, tabID)
	return nil
}

// TabIDs implements repository.TabSnapshotRepository.
func (r *SnapshotRepo) TabIDs(context.Context) ([]entity.TabID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]entity.TabID, 0, len(r.payloads))
	for id := range r.payloads {
		ids = append(ids, id)
	}
	return ids, nil
}

// View is a fake port.View identified by an arbitrary pointer value.
type View struct {
	Ptr     uintptr
	Visible bool
}

// GoPointer implements port.View.
func (v *View) GoPointer() uintptr { return v.Ptr }

// SetVisible implements port.View.
func (v *View) SetVisible(visible bool) { v.Visible = visible }

// Container is an in-memory port.Container tracking its children.
type Container struct {
	Name     string
	mu       sync.Mutex
	children []uintptr
}

// Append implements port.Container.
func (c *Container) Append(view port.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, view.GoPointer())
}

// Remove implements port.Container.
func (c *Container) Remove(view port.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.children {
		if p == view.GoPointer() {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// Contains implements port.Container.
func (c *Container) Contains(view port.View) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.children {
		if p == view.GoPointer() {
			return true
		}
	}
	return false
}

// Len returns the number of attached views.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.children)
}
