package world

import (
	"context"
	"sync"

	"github.com/specialistvlad/voxelforge/internal/material"
)

// Change is one successful write seen by a Recorder.
type Change struct {
	Point
	Block
}

// Recorder wraps a World and remembers every successful write, in order.
type Recorder struct {
	World

	mu      sync.Mutex
	changes []Change
}

// NewRecorder returns a Recorder writing through to w.
func NewRecorder(w World) *Recorder {
	return &Recorder{World: w}
}

func (r *Recorder) SetMaterial(ctx context.Context, x, y, z int, id material.ID, data int) error {
	if err := r.World.SetMaterial(ctx, x, y, z, id, data); err != nil {
		return err
	}
	r.mu.Lock()
	r.changes = append(r.changes, Change{Point: Point{x, y, z}, Block: Block{Material: id, Data: data}})
	r.mu.Unlock()
	return nil
}

// Changes returns a copy of the recorded writes.
func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

// Reset forgets all recorded writes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.changes = nil
	r.mu.Unlock()
}
