package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	mumbai := Point{Lat: 19.0760, Lng: 72.8777}
	pune := Point{Lat: 18.5204, Lng: 73.8567}

	d := DistanceKm(mumbai, pune)
	require.InDelta(t, 119.9, d, 1.0)
	require.InDelta(t, d, DistanceKm(pune, mumbai), 1e-9)
	require.Zero(t, DistanceKm(mumbai, mumbai))

	require.True(t, Within(mumbai, pune, 150))
	require.False(t, Within(mumbai, pune, 25))
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	center := Point{Lat: 12.9716, Lng: 77.5946}
	min, max := BoundingBox(center, 25)

	north := Point{Lat: max.Lat, Lng: center.Lng}
	require.InDelta(t, 25, DistanceKm(center, north), 0.01)
	require.Less(t, min.Lng, center.Lng)
	require.Greater(t, max.Lng, center.Lng)
}

func TestPointValid(t *testing.T) {
	require.True(t, Point{Lat: -90, Lng: 180}.Valid())
	require.False(t, Point{Lat: 91, Lng: 0}.Valid())
	require.False(t, Point{Lat: 0, Lng: -181}.Valid())
}
