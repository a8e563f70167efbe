package cavemap

import (
	"encoding/binary"
	"math/rand"

	"golang.org/x/crypto/blake2b"
)

// SeedValue hashes a seed string into the int64 used to seed math/rand.
// The hash is the first eight bytes of blake2b-256, big endian, so the
// mapping is stable across platforms and Go releases.
func SeedValue(seed string) int64 {
	sum := blake2b.Sum256([]byte(seed))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// SeedRand returns a generator seeded deterministically from seed.
func SeedRand(seed string) *rand.Rand {
	return rand.New(rand.NewSource(SeedValue(seed)))
}

// FillMap randomly fills g. The outer ring is always wall; every interior cell
// becomes wall when a draw from [0,100) is below fillPercent. Cells are visited
// column by column (x outer, y inner) and ring cells consume no draw.
func FillMap(g *Grid, fillPercent int, rng *rand.Rand) {
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if x == 0 || x == g.width-1 || y == 0 || y == g.height-1 {
				g.Set(x, y, Wall)
				continue
			}
			if rng.Intn(100) < fillPercent {
				g.Set(x, y, Wall)
			} else {
				g.Set(x, y, Space)
			}
		}
	}
}
