package weather

import "time"

// NearestIndex returns the index of the timestamp closest to target.
// On equal distance the earliest index wins. The scan does not assume the
// timestamps are sorted.
func NearestIndex(timestamps []time.Time, target time.Time) (int, error) {
	if len(timestamps) == 0 {
		return -1, ErrEmptySeries
	}

	best := 0
	bestDiff := absDuration(timestamps[0].Sub(target))
	for i := 1; i < len(timestamps); i++ {
		if d := absDuration(timestamps[i].Sub(target)); d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best, nil
}

// LocalTarget shifts now into the provider's local wall-clock frame, the
// same frame HourlySeries.Timestamps are stored in.
func LocalTarget(now time.Time, utcOffset time.Duration) time.Time {
	return now.UTC().Add(utcOffset)
}

// SampleNearest reduces the series to the row closest to now, classified
// with codes.
func SampleNearest(series HourlySeries, now time.Time, codes CodeTable) (Observation, error) {
	idx, err := NearestIndex(series.Timestamps, LocalTarget(now, series.UTCOffset))
	if err != nil {
		return Observation{}, err
	}
	if err := series.Validate(); err != nil {
		return Observation{}, err
	}

	obs := series.At(idx)
	info := codes.Describe(obs.WeatherCode)
	obs.Description = info.Description
	obs.Icon = info.Icon
	return obs, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
