package healpix

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain indicates a coordinate outside the valid ra/dec domain.
var ErrDomain = errors.New("coordinate out of domain")

// ValidateRADec checks that ra lies in [-180,180] and dec in [-90,90]
// degrees. NaN values are rejected.
func ValidateRADec(ra, dec float64) error {
	if math.IsNaN(ra) || ra < -180 || ra > 180 {
		return fmt.Errorf("%w: ra must be between -180 and 180, got %v", ErrDomain, ra)
	}
	if math.IsNaN(dec) || dec < -90 || dec > 90 {
		return fmt.Errorf("%w: dec must be between -90 and 90, got %v", ErrDomain, dec)
	}
	return nil
}

// Separation returns the great-circle angular separation between two sky
// positions, in degrees. It uses the haversine formulation, which is
// numerically stable for small separations.
func Separation(ra1, dec1, ra2, dec2 float64) float64 {
	const d2r = math.Pi / 180

	phi1 := dec1 * d2r
	phi2 := dec2 * d2r
	dPhi := (dec2 - dec1) * d2r
	dLam := (ra2 - ra1) * d2r

	sinPhi := math.Sin(dPhi / 2)
	sinLam := math.Sin(dLam / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLam*sinLam
	if a > 1 {
		a = 1
	}
	return 2 * math.Asin(math.Sqrt(a)) / d2r
}

// UnitVector returns the 3-D Cartesian unit vector of a sky position.
func UnitVector(ra, dec float64) [3]float64 {
	const d2r = math.Pi / 180
	cosDec := math.Cos(dec * d2r)
	return [3]float64{
		cosDec * math.Cos(ra*d2r),
		cosDec * math.Sin(ra*d2r),
		math.Sin(dec * d2r),
	}
}

// ChordToAngle converts a Euclidean chord length between two unit vectors to
// the true great-circle angle between them, in degrees. Chordal distance is
// not linear in angle, so any angular comparison must go through this
// conversion first.
func ChordToAngle(chord float64) float64 {
	half := chord / 2
	if half > 1 {
		half = 1
	}
	if half < 0 {
		half = 0
	}
	return 2 * math.Asin(half) * 180 / math.Pi
}
