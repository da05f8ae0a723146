package astro

import (
	"math"
	"time"
)

// The position model uses mean orbital elements referenced to J2000: each
// body's ecliptic longitude advances linearly at its mean daily motion.
// Positions are suitable for sign, house, and aspect work, not for
// ephemeris-grade accuracy.

type meanElements struct {
	longitude float64 // mean ecliptic longitude at J2000, degrees
	motion    float64 // mean daily motion, degrees/day
	distance  float64 // mean distance, AU
}

var elements = map[string]meanElements{
	"sun":     {280.460, 0.98564736, 1.000},
	"moon":    {218.316, 13.17639648, 0.00257},
	"mercury": {252.251, 4.09233445, 0.387},
	"venus":   {181.980, 1.60213034, 0.723},
	"mars":    {355.433, 0.52403840, 1.524},
	"jupiter": {34.351, 0.08308529, 5.203},
	"saturn":  {50.077, 0.03344414, 9.537},
	"uranus":  {314.055, 0.01172834, 19.191},
	"neptune": {304.349, 0.00598103, 30.069},
	"pluto":   {238.930, 0.00397671, 39.482},

	"chiron":     {207.224, 0.01953819, 13.670},
	"ceres":      {153.989, 0.21408983, 2.766},
	"pallas":     {310.451, 0.21343771, 2.773},
	"juno":       {247.845, 0.22611811, 2.669},
	"vesta":      {343.877, 0.27153906, 2.362},
	"north_node": {125.045, -0.05295377, 0.00257},
	"lilith":     {83.353, 0.11140353, 0.00257},
}

var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// daysSinceJ2000 returns the fractional day count from the J2000 epoch.
func daysSinceJ2000(t time.Time) float64 {
	return t.Sub(j2000).Hours() / 24.0
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// longitudeAt returns the mean ecliptic longitude and daily motion of the
// named object at time t. The second return is false for objects the model
// cannot position directly (derived points are handled by the caller).
func longitudeAt(name string, t time.Time) (lon, speed float64, ok bool) {
	if name == "south_node" {
		lon, speed, ok = longitudeAt("north_node", t)
		return normalizeDegrees(lon + 180), speed, ok
	}
	el, ok := elements[name]
	if !ok {
		return 0, 0, false
	}
	d := daysSinceJ2000(t)
	return normalizeDegrees(el.longitude + el.motion*d), el.motion, true
}

var zodiacSigns = [12]string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

// signOf returns the zodiac sign containing an ecliptic longitude.
func signOf(longitude float64) string {
	idx := int(normalizeDegrees(longitude) / 30)
	return zodiacSigns[idx%12]
}

// ascendant estimates the rising degree from local sidereal time. The
// approximation equates the ascendant with the culminating point offset by a
// quadrant, which is adequate for equal-style house cusps.
func ascendant(t time.Time, latitude, longitude float64) float64 {
	d := daysSinceJ2000(t)
	lst := 280.46061837 + 360.98564736629*d + longitude
	return normalizeDegrees(lst + 90)
}

// houseOf assigns an equal-style house number from a longitude and the
// ascendant degree.
func houseOf(longitude, asc float64) int {
	offset := normalizeDegrees(longitude - asc)
	return int(offset/30) + 1
}

// angularSeparation returns the unsigned arc between two longitudes in
// [0, 180].
func angularSeparation(a, b float64) float64 {
	diff := math.Abs(normalizeDegrees(a) - normalizeDegrees(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
