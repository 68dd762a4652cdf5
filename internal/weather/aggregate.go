package weather

import (
	"math"
	"sort"
	"time"
)

const (
	// MaxDailyEntries bounds the outlook length.
	MaxDailyEntries = 7

	tempTrendWeight = 0.7
	popTrendWeight  = 0.5

	dayLayout = "2006-01-02"
)

// dayBucket accumulates the samples of one UTC calendar day.
type dayBucket struct {
	date    time.Time
	temps   []float64
	avg     *float64 // set only for extrapolated days
	tempMin float64
	tempMax float64
	pop     float64
	weather WeatherCondition
}

func (b *dayBucket) mean() float64 {
	if b.avg != nil {
		return *b.avg
	}
	if len(b.temps) == 0 {
		return 0
	}
	var sum float64
	for _, t := range b.temps {
		sum += t
	}
	return sum / float64(len(b.temps))
}

// AggregateDaily folds 3-hour forecast samples into at most MaxDailyEntries
// daily summaries, ascending by date. today, when non-nil with a non-zero
// ObservedAt, supplies day 0 if the forecast starts after the current day.
// When fewer than seven days are available a single trailing day is
// extrapolated from the last two days' trend.
func AggregateDaily(samples []ForecastSample, today *Snapshot) []DailySummary {
	if len(samples) == 0 {
		return nil
	}

	buckets := make(map[string]*dayBucket)

	for _, s := range samples {
		ts := time.Unix(s.Epoch, 0).UTC()
		k := ts.Format(dayLayout)

		b, ok := buckets[k]
		if !ok {
			b = &dayBucket{
				date:    startOfDay(ts),
				tempMin: s.Temp,
				tempMax: s.Temp,
				pop:     s.PrecipitationProbability,
				weather: s.Weather,
			}
			buckets[k] = b
		}

		b.temps = append(b.temps, s.Temp)
		if s.Temp < b.tempMin {
			b.tempMin = s.Temp
		}
		if s.Temp > b.tempMax {
			b.tempMax = s.Temp
		}
		// Strictly greater: ties keep the earliest sample.
		if s.PrecipitationProbability > b.pop {
			b.pop = s.PrecipitationProbability
			b.weather = s.Weather
		}
	}

	if today != nil && today.ObservedAt > 0 {
		ts := time.Unix(today.ObservedAt, 0).UTC()
		k := ts.Format(dayLayout)
		if _, ok := buckets[k]; !ok {
			buckets[k] = &dayBucket{
				date:    startOfDay(ts),
				temps:   []float64{today.Temp},
				tempMin: today.TempMin,
				tempMax: today.TempMax,
				weather: today.Weather,
			}
		}
	}

	days := make([]*dayBucket, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	if len(days) > 0 && len(days) < MaxDailyEntries {
		days = append(days, extrapolate(days))
	}

	if len(days) > MaxDailyEntries {
		days = days[:MaxDailyEntries]
	}

	out := make([]DailySummary, 0, len(days))
	for _, b := range days {
		out = append(out, DailySummary{
			Date:                 b.date.Format(dayLayout),
			AvgTemp:              roundHalfUp(b.mean()),
			TempMin:              roundHalfUp(b.tempMin),
			TempMax:              roundHalfUp(b.tempMax),
			Weather:              b.weather,
			PrecipitationPercent: clampPercent(roundHalfUp(b.pop * 100)),
		})
	}
	return out
}

// extrapolate projects the day after the last bucket. days must be non-empty
// and sorted.
func extrapolate(days []*dayBucket) *dayBucket {
	last := days[len(days)-1]
	lastMean := last.mean()

	var tempTrend, minTrend, maxTrend, popTrend float64
	if len(days) >= 2 {
		prev := days[len(days)-2]
		tempTrend = lastMean - prev.mean()
		minTrend = last.tempMin - prev.tempMin
		maxTrend = last.tempMax - prev.tempMax
		popTrend = last.pop - prev.pop
	}

	avg := lastMean + tempTrend*tempTrendWeight
	return &dayBucket{
		date:    last.date.AddDate(0, 0, 1),
		avg:     &avg,
		tempMin: last.tempMin + minTrend*tempTrendWeight,
		tempMax: last.tempMax + maxTrend*tempTrendWeight,
		pop:     math.Max(0, math.Min(1, last.pop+popTrend*popTrendWeight)),
		weather: last.weather,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// roundHalfUp rounds to the nearest integer with halves going towards +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
