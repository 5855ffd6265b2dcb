package kernel

import (
	"github.com/gogpu/particlize"
	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/internal/parallel"
)

// grain is the smallest batch handed to a worker.
const grain = 1024

// Step advances every particle by one frame on the calling goroutine.
// p.FieldCount is ignored; the number of fields is len(fields).
func Step(ps []particlize.Particle, fields []field.Descriptor, p Params) {
	p.FieldCount = uint32(len(fields))
	stepRange(ps, fields, &p)
}

func stepRange(ps []particlize.Particle, fields []field.Descriptor, p *Params) {
	for i := range ps {
		pt := &ps[i]
		s := state{pos: pt.Position, vel: pt.Velocity, home: pt.Home}
		step(&s, fields, p)
		pt.Position, pt.Velocity = s.pos, s.vel
	}
}

// Simulator steps large particle sets across a worker pool.
type Simulator struct {
	pool *parallel.WorkerPool
}

// NewSimulator starts a simulator with the given number of workers
// (0 means GOMAXPROCS).
func NewSimulator(workers int) *Simulator {
	return &Simulator{pool: parallel.NewWorkerPool(workers)}
}

// Step advances every particle by one frame, in parallel.
func (s *Simulator) Step(ps []particlize.Particle, fields []field.Descriptor, p Params) {
	p.FieldCount = uint32(len(fields))
	s.pool.For(len(ps), grain, func(lo, hi int) {
		stepRange(ps[lo:hi], fields, &p)
	})
}

// Close stops the workers.
func (s *Simulator) Close() {
	s.pool.Close()
}
