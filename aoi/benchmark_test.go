package aoi

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

const (
	benchMapWidth  = 1000
	benchMapHeight = 1000
)

func benchWorld(count int) (*Group, []string, *rand.Rand) {
	rnd := rand.New(rand.NewSource(1))

	g := NewGroup([]Coord{20, 20})
	keys := make([]string, 0, count)

	for i := 0; i < count; i++ {
		key := uuid.New().String()
		keys = append(keys, key)

		pos := []Coord{Coord(rnd.Intn(benchMapWidth)), Coord(rnd.Intn(benchMapHeight))}
		if i%10 == 0 {
			g.Enter(key, pos, Both, []Coord{10, 10})
		} else {
			g.Enter(key, pos, Maker, nil)
		}
	}

	return g, keys, rnd
}

func benchMoveWithCount(b *testing.B, count int) {
	g, keys, rnd := benchWorld(count)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := keys[i%count]
		cur, _ := g.Position(key)
		g.Move(key, []Coord{
			cur[0] + Coord(rnd.Intn(9)-4),
			cur[1] + Coord(rnd.Intn(9)-4),
		})
	}
}

func Benchmark_Move1000(b *testing.B) {
	benchMoveWithCount(b, 1000)
}
func Benchmark_Move5000(b *testing.B) {
	benchMoveWithCount(b, 5000)
}
func Benchmark_Move10000(b *testing.B) {
	benchMoveWithCount(b, 10000)
}

func Benchmark_EnterLeave5000(b *testing.B) {
	g, _, rnd := benchWorld(5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := uuid.New().String()
		pos := []Coord{Coord(rnd.Intn(benchMapWidth)), Coord(rnd.Intn(benchMapHeight))}
		g.Enter(key, pos, Both, []Coord{10, 10})
		g.Leave(key)
	}
}

func Benchmark_MakersInRange5000(b *testing.B) {
	g, _, rnd := benchWorld(5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos := []Coord{Coord(rnd.Intn(benchMapWidth)), Coord(rnd.Intn(benchMapHeight))}
		g.MakersInRange(pos, []Coord{15, 15}, nil)
	}
}
