package weather

import "time"

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Summary condenses a run of stored observations for the history endpoint.
type Summary struct {
	Count       int       `json:"count"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Temperature float64   `json:"meanTemperature"`
	Humidity    float64   `json:"meanHumidity"`
	WindSpeed   float64   `json:"meanWindSpeed"`
	Pressure    float64   `json:"meanPressure"`
	CloudCover  float64   `json:"meanCloudCover"`
	Condition   Condition `json:"condition"`
}

// Summarize averages numeric fields; the condition is picked by majority,
// ties going to the condition seen first.
func Summarize(observations []Observation) Summary {
	if len(observations) == 0 {
		return Summary{Condition: ConditionUnknown}
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumWind     float64
		sumPressure float64
		sumCloud    float64
	)

	conditionCounts := make(map[Condition]int)
	var order []Condition
	from, to := observations[0].Instant, observations[0].Instant

	for _, o := range observations {
		sumTemp += o.Temperature
		sumHumidity += o.Humidity
		sumWind += o.WindSpeed
		sumPressure += o.Pressure
		sumCloud += o.CloudCover

		cond := mapOpenMeteoCondition(o.WeatherCode)
		if conditionCounts[cond] == 0 {
			order = append(order, cond)
		}
		conditionCounts[cond]++

		if o.Instant.Before(from) {
			from = o.Instant
		}
		if o.Instant.After(to) {
			to = o.Instant
		}
	}

	n := float64(len(observations))

	// Pick majority condition.
	bestCond := ConditionUnknown
	bestCount := 0
	for _, cond := range order {
		if count := conditionCounts[cond]; count > bestCount {
			bestCount = count
			bestCond = cond
		}
	}

	return Summary{
		Count:       len(observations),
		From:        from,
		To:          to,
		Temperature: sumTemp / n,
		Humidity:    sumHumidity / n,
		WindSpeed:   sumWind / n,
		Pressure:    sumPressure / n,
		CloudCover:  sumCloud / n,
		Condition:   bestCond,
	}
}
