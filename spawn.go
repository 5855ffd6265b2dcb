package particlize

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Spawn places an item in the scene. Position offsets every particle of the
// item, including its home.
type Spawn struct {
	Item     Item
	Position Vec2
}

// Compose concatenates the particles of all spawns in order, translated by
// each spawn's position. Spawns with a nil item are skipped. The result is
// freshly allocated.
func Compose(spawns []Spawn) []Particle {
	n := 0
	for _, s := range spawns {
		if s.Item != nil {
			n += len(s.Item.Particles())
		}
	}
	out := make([]Particle, 0, n)
	for _, s := range spawns {
		if s.Item == nil {
			continue
		}
		for _, p := range s.Item.Particles() {
			p.Position = p.Position.Add(s.Position)
			p.Home = p.Home.Add(s.Position)
			out = append(out, p)
		}
	}
	return out
}

// SpawnHash fingerprints a spawn list for change detection. It covers the
// spawn count and, per spawn, the item identity and kind, its particle count
// and the position truncated to whole pixels.
func SpawnHash(spawns []Spawn) uint64 {
	h := fnv.New64a()
	var b [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(b[:], v)
		_, _ = h.Write(b[:])
	}
	put(uint64(len(spawns)))
	for _, s := range spawns {
		if s.Item == nil {
			put(0)
			continue
		}
		put(s.Item.ID())
		put(uint64(s.Item.Kind()))
		put(uint64(len(s.Item.Particles())))
		put(uint64(truncate(s.Position.X)))
		put(uint64(truncate(s.Position.Y)))
	}
	return h.Sum64()
}

func truncate(f float32) int64 {
	if math.IsNaN(float64(f)) {
		return 0
	}
	return int64(f)
}
