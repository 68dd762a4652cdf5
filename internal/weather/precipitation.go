package weather

// forecastWindow is the number of leading samples (~9 hours) considered.
const forecastWindow = 3

// EstimatePrecipitation returns the chance of precipitation in percent. The
// near-term forecast wins when it carries any non-zero probability; otherwise
// the estimate falls back to a heuristic over current conditions.
func EstimatePrecipitation(s Snapshot) int {
	if p, ok := forecastPrecipitation(s.Forecast); ok {
		return p
	}

	clouds := 0
	if s.CloudCoveragePercent != nil {
		clouds = *s.CloudCoveragePercent
	}

	switch s.Weather.Main {
	case ConditionRain, ConditionDrizzle, ConditionThunderstorm:
		return 90
	case ConditionSnow:
		return 85
	case ConditionClouds:
		if clouds > 70 && s.Humidity > 70 {
			return min(70, roundHalfUp(float64(clouds+s.Humidity)/2))
		}
		if clouds > 50 {
			return min(40, roundHalfUp(float64(clouds)/2))
		}
	}
	return 0
}

func forecastPrecipitation(samples []ForecastSample) (int, bool) {
	if len(samples) > forecastWindow {
		samples = samples[:forecastWindow]
	}

	var (
		sum float64
		n   int
	)
	for _, s := range samples {
		if s.PrecipitationProbability > 0 {
			sum += s.PrecipitationProbability
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return clampPercent(roundHalfUp(sum / float64(n) * 100)), true
}
