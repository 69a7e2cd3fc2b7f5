package weather

// ReduceDaily turns a daily series into one DailyObservation per day, in the
// order the provider returned them.
func ReduceDaily(series DailySeries) ([]DailyObservation, error) {
	if len(series.Days) == 0 {
		return nil, ErrEmptySeries
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	out := make([]DailyObservation, 0, len(series.Days))
	for i, day := range series.Days {
		out = append(out, DailyObservation{
			Date:                     day,
			TemperatureMax:           series.TemperatureMax[i],
			TemperatureMin:           series.TemperatureMin[i],
			PrecipitationProbability: series.PrecipitationProbability[i],
			Units:                    series.Units,
		})
	}
	return out, nil
}
