package spatial

import (
	"math/rand/v2"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var allKinds = []Kind{KindQuadTree, KindGrid, KindKDTree}

func testOptions(n int) Options {
	return Options{HalfExtent: 1.1, NodeCapacity: 8, CellSize: 0.03, SizeHint: n}
}

func randomPoints(r *rand.Rand, n int, spread float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: (r.Float64()*2 - 1) * spread, Y: (r.Float64()*2 - 1) * spread}
	}
	return pts
}

func bruteForce(pts []Point, p Point, radius float64) []int {
	var ids []int
	for id, q := range pts {
		if distSq(p, q) <= radius*radius {
			ids = append(ids, id)
		}
	}
	return ids
}

func build(t testing.TB, kind Kind, pts []Point) Index {
	idx, err := New(kind, testOptions(len(pts)))
	require.NoError(t, err)
	for id, p := range pts {
		idx.Insert(p, id)
	}
	return idx
}

func sorted(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

func TestIndex_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 13))
	// Spread past the quadtree bounds so the overflow list is exercised too.
	pts := randomPoints(r, 2000, 1.2)

	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			idx := build(t, kind, pts)
			require.Equal(t, len(pts), idx.Len())

			for i := 0; i < 200; i++ {
				q := pts[r.IntN(len(pts))]
				radius := 0.01 + r.Float64()*0.1
				want := bruteForce(pts, q, radius)
				got := idx.QueryRadius(q, radius)
				require.Equal(t, sorted(want), sorted(got), "query %v r=%v", q, radius)
			}
		})
	}
}

func TestIndex_IncludesQueryOrigin(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: 0.01, Y: 0}, {X: 0.5, Y: 0.5}}
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			idx := build(t, kind, pts)
			require.ElementsMatch(t, []int{0, 1}, idx.QueryRadius(pts[0], 0.03))
			require.ElementsMatch(t, []int{2}, idx.QueryRadius(pts[2], 0.03))
		})
	}
}

func TestIndex_Empty(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			idx := build(t, kind, nil)
			require.Zero(t, idx.Len())
			require.Empty(t, idx.QueryRadius(Point{}, 1))
		})
	}
}

func TestIndex_ManyCoincidentPoints(t *testing.T) {
	pts := make([]Point, 500)
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			idx := build(t, kind, pts)
			require.Len(t, idx.QueryRadius(Point{}, 0.001), len(pts))
		})
	}
}

func TestIndex_ConcurrentQueries(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 8))
	pts := randomPoints(r, 3000, 0.8)

	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			idx := build(t, kind, pts)
			want := make([][]int, len(pts))
			for i, p := range pts {
				want[i] = sorted(bruteForce(pts, p, 0.03))
			}

			var wg sync.WaitGroup
			errs := make(chan string, 8)
			for w := 0; w < 8; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := w; i < len(pts); i += 8 {
						got := sorted(idx.QueryRadius(pts[i], 0.03))
						if len(got) != len(want[i]) {
							errs <- "mismatch"
							return
						}
					}
				}(w)
			}
			wg.Wait()
			close(errs)
			for e := range errs {
				t.Fatal(e)
			}
		})
	}
}

func TestQuadTree_OutsideBoundsKept(t *testing.T) {
	q := NewQuadTree(Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}, 4)
	q.Insert(Point{X: 5, Y: 5}, 7)
	q.Insert(Point{X: 0, Y: 0}, 1)

	require.Equal(t, 2, q.Len())
	require.Equal(t, []int{7}, q.QueryRadius(Point{X: 5, Y: 5}, 0.1))
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New("octree", Options{})
	require.ErrorIs(t, err, ErrUnknownKind)
}

func benchmarkIndex(b *testing.B, kind Kind) {
	r := rand.New(rand.NewPCG(1, 2))
	pts := randomPoints(r, 20000, 0.8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := build(b, kind, pts)
		for j := 0; j < 1000; j++ {
			idx.QueryRadius(pts[j], 0.03)
		}
	}
}

func BenchmarkQuadTree(b *testing.B) { benchmarkIndex(b, KindQuadTree) }
func BenchmarkGrid(b *testing.B)     { benchmarkIndex(b, KindGrid) }
func BenchmarkKDTree(b *testing.B)   { benchmarkIndex(b, KindKDTree) }
