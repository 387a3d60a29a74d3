package geodesy

import (
	"context"
	"math"
)

// NeedleAngle is the rotation of the Qibla marker relative to the device: bearing minus heading.
func NeedleAngle(bearing, heading float64) float64 {
	return bearing - heading
}

// HeadingFromMagnetometer converts a raw magnetometer sample to an azimuth in [0, 360).
func HeadingFromMagnetometer(x, y float64) float64 {
	return NormalizeDegrees(toDegrees(math.Atan2(y, x)))
}

// Follow recomputes the needle angle for every heading sample received.
// The returned channel closes when ctx is done or headings is closed.
func Follow(ctx context.Context, headings <-chan float64, bearing float64) <-chan float64 {
	out := make(chan float64)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case heading, ok := <-headings:
				if !ok {
					return
				}
				select {
				case out <- NeedleAngle(bearing, heading):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
