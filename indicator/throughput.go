package indicator

import (
	"time"
)

// Throughput converts a monotonically growing counter into a smoothed
// per-second rate.
type Throughput struct {
	average   MovingAverage[float64]
	lastValue uint64
	lastTime  time.Time
	rate      float64
}

func NewThroughput(window int) *Throughput {
	return &Throughput{
		average: NewMAMADefault[float64](window),
	}
}

// Update registers the counter value observed at the given moment and
// returns the smoothed rate. The first observation yields zero.
func (t *Throughput) Update(value uint64, now time.Time) float64 {
	if t.lastTime.IsZero() || !now.After(t.lastTime) {
		t.lastValue, t.lastTime = value, now
		return t.rate
	}
	delta := float64(0)
	if value > t.lastValue {
		delta = float64(value - t.lastValue)
	}
	t.rate = t.average.Update(delta / now.Sub(t.lastTime).Seconds())
	t.lastValue, t.lastTime = value, now
	return t.rate
}
