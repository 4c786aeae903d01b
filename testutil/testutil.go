package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// SkyPoint returns a sky position drawn uniformly on the sphere,
// with ra in [-180,180) and dec in [-90,90] degrees.
func (r *RNG) SkyPoint() (ra, dec float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ra = r.rand.Float64()*360 - 180
	// Uniform in sin(dec) keeps the distribution uniform in area.
	dec = math.Asin(r.rand.Float64()*2-1) * 180 / math.Pi
	return ra, dec
}

// SkyPointIn returns a sky position drawn from the given ra/dec box
// (degrees). The declination is drawn uniformly in sin(dec) so density stays
// uniform in area.
func (r *RNG) SkyPointIn(raMin, raMax, decMin, decMax float64) (ra, dec float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ra = raMin + r.rand.Float64()*(raMax-raMin)
	zMin := math.Sin(decMin * math.Pi / 180)
	zMax := math.Sin(decMax * math.Pi / 180)
	dec = math.Asin(zMin+r.rand.Float64()*(zMax-zMin)) * 180 / math.Pi
	return ra, dec
}

// SkyPoints returns n uniformly distributed sky positions.
func (r *RNG) SkyPoints(n int) (ras, decs []float64) {
	ras = make([]float64, n)
	decs = make([]float64, n)
	for i := range n {
		ras[i], decs[i] = r.SkyPoint()
	}
	return ras, decs
}
