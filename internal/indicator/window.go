package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

type cells = []optional.Option[float64]

// SimpleMovingAverage returns the trailing mean over window values for every
// row. Row i is defined only when i >= window-1 and every value in the
// window is defined.
func SimpleMovingAverage(values cells, window int) cells {
	out := make(cells, len(values))
	sum, missing := 0.0, 0

	for i, v := range values {
		if v.IsSome() {
			sum += v.Unwrap()
		} else {
			missing++
		}

		if i >= window {
			old := values[i-window]
			if old.IsSome() {
				sum -= old.Unwrap()
			} else {
				missing--
			}
		}

		if i >= window-1 && missing == 0 {
			out[i] = optional.Some(sum / float64(window))
		}
	}

	return out
}

// RelativeStrengthIndex computes RSI from the simple trailing mean of gains
// and losses over window close-to-close changes. The first window rows are
// undefined. A window with no losses yields 100.
func RelativeStrengthIndex(values cells, window int) cells {
	out := make(cells, len(values))
	if len(values) == 0 {
		return out
	}

	gains := make(cells, len(values))
	losses := make(cells, len(values))
	for i := 1; i < len(values); i++ {
		if values[i].IsNone() || values[i-1].IsNone() {
			continue
		}

		delta := values[i].Unwrap() - values[i-1].Unwrap()
		gains[i] = optional.Some(math.Max(delta, 0))
		losses[i] = optional.Some(math.Max(-delta, 0))
	}

	avgGain := SimpleMovingAverage(gains, window)
	avgLoss := SimpleMovingAverage(losses, window)

	for i := window; i < len(values); i++ {
		if avgGain[i].IsNone() || avgLoss[i].IsNone() {
			continue
		}

		gain, loss := avgGain[i].Unwrap(), avgLoss[i].Unwrap()
		if loss == 0 {
			out[i] = optional.Some(100.0)
			continue
		}

		out[i] = optional.Some(100 - 100/(1+gain/loss))
	}

	return out
}

// RollingStdDev returns the trailing sample standard deviation (N-1
// denominator) over window values. window must be at least 2.
func RollingStdDev(values cells, window int) cells {
	out := make(cells, len(values))
	means := SimpleMovingAverage(values, window)

	for i := window - 1; i < len(values); i++ {
		if means[i].IsNone() {
			continue
		}

		mean := means[i].Unwrap()
		squares := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j].Unwrap() - mean
			squares += d * d
		}

		out[i] = optional.Some(math.Sqrt(squares / float64(window-1)))
	}

	return out
}

// Bands returns the upper and lower Bollinger bands: the trailing mean plus
// and minus multiplier sample standard deviations.
func Bands(values cells, window int, multiplier float64) (upper, lower cells) {
	means := SimpleMovingAverage(values, window)
	stds := RollingStdDev(values, window)

	upper = make(cells, len(values))
	lower = make(cells, len(values))
	for i := range values {
		if means[i].IsNone() || stds[i].IsNone() {
			continue
		}

		mean, std := means[i].Unwrap(), stds[i].Unwrap()
		upper[i] = optional.Some(mean + multiplier*std)
		lower[i] = optional.Some(mean - multiplier*std)
	}

	return upper, lower
}
