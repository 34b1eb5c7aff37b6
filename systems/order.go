package systems

import (
	"fmt"
	"math"
)

// Pattern selects how per-particle ranks are laid out over the home grid.
// Ranks gate activation — a particle is active under global percentage p iff
// rank < p — so a pattern is also the order in which particles appear.
type Pattern int

const (
	PatternRandom Pattern = iota
	PatternRadial
	PatternSpiral
	PatternGrid
	PatternWaveX
	PatternWaveY
	PatternCellular
	patternCount
)

var patternNames = [patternCount]string{
	PatternRandom:   "random",
	PatternRadial:   "radial",
	PatternSpiral:   "spiral",
	PatternGrid:     "grid",
	PatternWaveX:    "horizontal-wave",
	PatternWaveY:    "vertical-wave",
	PatternCellular: "cellular",
}

func (p Pattern) String() string {
	if p < 0 || p >= patternCount {
		return fmt.Sprintf("pattern(%d)", int(p))
	}
	return patternNames[p]
}

// ParsePattern maps a config string to its Pattern.
func ParsePattern(s string) (Pattern, error) {
	for i, name := range patternNames {
		if name == s {
			return Pattern(i), nil
		}
	}
	return PatternRandom, fmt.Errorf("unknown ordering pattern %q", s)
}

// Next cycles to the following pattern.
func (p Pattern) Next() Pattern {
	return (p + 1) % patternCount
}

// A rankFunc maps a home coordinate in the unit square to a rank in [0, 1).
// All are pure; seed only matters to the hash-driven patterns. New patterns
// are added here and in the enum, nowhere else.
type rankFunc func(u, v, scale, seed float64) float64

var rankFuncs = [patternCount]rankFunc{
	PatternRandom:   rankRandom,
	PatternRadial:   rankRadial,
	PatternSpiral:   rankSpiral,
	PatternGrid:     rankGrid,
	PatternWaveX:    rankWaveX,
	PatternWaveY:    rankWaveY,
	PatternCellular: rankCellular,
}

// Rank evaluates the pattern for one home coordinate.
func (p Pattern) Rank(u, v, scale, seed float64) float64 {
	if p < 0 || p >= patternCount {
		p = PatternRandom
	}
	return rankFuncs[p](u, v, scale, seed)
}

func rankRandom(u, v, _, seed float64) float64 {
	return Hash(u*127.1 + v*311.7 + seed)
}

func rankRadial(u, v, scale, _ float64) float64 {
	// the farthest corner sits sqrt(0.5) from the center
	return capRank(distance(u, v, 0.5, 0.5) * math.Sqrt2 * scale)
}

func rankSpiral(u, v, scale, _ float64) float64 {
	du := u - 0.5
	dv := v - 0.5
	turn := (math.Atan2(dv, du) + math.Pi) / (2 * math.Pi)
	return fract(turn + math.Hypot(du, dv)*math.Sqrt2*scale)
}

func rankGrid(u, v, scale, seed float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	bx := math.Floor(u * scale)
	by := math.Floor(v * scale)
	return Hash(bx*53.7177 + by*97.1313 + seed)
}

func rankWaveX(u, _, scale, _ float64) float64 {
	return fract(u * scale)
}

func rankWaveY(_, v, scale, _ float64) float64 {
	return fract(v * scale)
}

// cellCount keeps the cellular pattern reading as a handful of organic
// blotches rather than fine Voronoi grain.
const cellCount = 12

func rankCellular(u, v, scale, seed float64) float64 {
	best := math.MaxFloat64
	bestCell := 0
	for k := 0; k < cellCount; k++ {
		fk := float64(k)
		cx := Hash(fk*61.7717 + 3.1913 + seed)
		cy := Hash(fk*83.3131 + 9.7319 + seed)
		// push centers off their hash positions so region borders wander
		cx += (Hash(cx*45.1301+cy*17.7707) - 0.5) * 0.18
		cy += (Hash(cx*91.3703+cy*23.1901) - 0.5) * 0.18
		if d := distance(u, v, cx, cy); d < best {
			best = d
			bestCell = k
		}
	}
	// region order dominates; the distance term grows each region outward
	// from its core
	return capRank(0.8*Hash(float64(bestCell)*29.1717+1.1313+seed) + 0.2*Clamp01(best*scale))
}

// capRank keeps ranks inside the half-open activation contract.
func capRank(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r >= 1 {
		return math.Nextafter(1, 0)
	}
	return r
}
