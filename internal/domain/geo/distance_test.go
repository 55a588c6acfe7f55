package geo

import (
	"math"
	"testing"
)

func TestDistanceKMZeroForSamePoint(t *testing.T) {
	if d := DistanceKM(40.0, -74.0, 40.0, -74.0); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %f", d)
	}
}

func TestDistanceKMSymmetric(t *testing.T) {
	points := [][4]float64{
		{40.0, -74.0, 40.01, -74.0},
		{53.9006, 27.5590, 52.0976, 23.7341},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{89.9, 179.9, -89.9, -179.9},
	}

	for _, p := range points {
		ab := DistanceKM(p[0], p[1], p[2], p[3])
		ba := DistanceKM(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Fatalf("distance not symmetric for %v: %f vs %f", p, ab, ba)
		}
	}
}

func TestDistanceKMKnownValues(t *testing.T) {
	// 0.01 degrees of latitude is roughly 1.11 km.
	d := DistanceKM(40.0, -74.0, 40.01, -74.0)
	if d < 1.0 || d > 1.2 {
		t.Fatalf("expected ~1.11 km, got %f", d)
	}

	// Minsk to Brest, roughly 290-320 km.
	d = DistanceKM(53.9006, 27.5590, 52.0976, 23.7341)
	if d < 280 || d > 330 {
		t.Fatalf("expected ~300 km between Minsk and Brest, got %f", d)
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}

	for _, c := range cases {
		if got := ValidCoordinates(c.lat, c.lon); got != c.want {
			t.Fatalf("ValidCoordinates(%f, %f) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}
