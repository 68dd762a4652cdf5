package weather

// Condition is the upstream "main" weather group (OpenWeatherMap naming).
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionHaze         Condition = "Haze"
)

// WeatherCondition describes the sky state of a snapshot or sample.
type WeatherCondition struct {
	Main        Condition `json:"main"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
}

// Coordinates of a resolved place.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Snapshot is the merged current-conditions record for one place, enriched
// with forecast data and derived fields. It is never mutated after Fetch
// returns it.
type Snapshot struct {
	LocationName string      `json:"name"`
	CountryCode  string      `json:"country"`
	Coordinates  Coordinates `json:"coord"`

	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feelsLike"`
	TempMin   float64 `json:"tempMin"`
	TempMax   float64 `json:"tempMax"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
	WindSpeed float64 `json:"windSpeed"`

	VisibilityMeters     *int `json:"visibility,omitempty"`
	CloudCoveragePercent *int `json:"clouds,omitempty"`

	Weather WeatherCondition `json:"weather"`

	Sunrise          int64 `json:"sunrise"`
	Sunset           int64 `json:"sunset"`
	ObservedAt       int64 `json:"dt"`
	UTCOffsetSeconds int   `json:"timezone"`

	// Forecast holds the first short-range samples, used by EstimatePrecipitation.
	Forecast      []ForecastSample `json:"forecast,omitempty"`
	DailyForecast []DailySummary   `json:"dailyForecast,omitempty"`

	PrecipitationPercent int    `json:"precipitationPercent"`
	Summary              string `json:"summary"`
	Theme                string `json:"theme,omitempty"`
}

// ForecastSample is one 3-hour interval of the short-range forecast.
type ForecastSample struct {
	Epoch                    int64            `json:"dt"`
	Temp                     float64          `json:"temp"`
	TempMin                  float64          `json:"tempMin"`
	TempMax                  float64          `json:"tempMax"`
	Weather                  WeatherCondition `json:"weather"`
	PrecipitationProbability float64          `json:"pop"`
	CloudCoveragePercent     *int             `json:"clouds,omitempty"`
}

// DailySummary is one day of the 7-day outlook.
type DailySummary struct {
	Date                 string           `json:"date"` // YYYY-MM-DD, UTC
	AvgTemp              int              `json:"temp"`
	TempMin              int              `json:"tempMin"`
	TempMax              int              `json:"tempMax"`
	Weather              WeatherCondition `json:"weather"`
	PrecipitationPercent int              `json:"pop"`
}
