package weather

import (
	"time"
)

// Coordinates holds the geographic position reported by the provider.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CurrentWeather is the normalized current-conditions snapshot for a city.
// Immutable once constructed; temperatures are rounded to whole degrees
// and visibility is in kilometers.
type CurrentWeather struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Temperature int         `json:"temperature"`
	FeelsLike   int         `json:"feelsLike"`
	TempMin     int         `json:"tempMin"`
	TempMax     int         `json:"tempMax"`
	Humidity    int         `json:"humidity"`
	Pressure    int         `json:"pressure"`
	WindSpeed   float64     `json:"windSpeed"`
	WindDeg     int         `json:"windDeg"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	IconURL     string      `json:"iconUrl"`
	Visibility  float64     `json:"visibility"` // km
	Clouds      int         `json:"clouds"`
	Sunrise     time.Time   `json:"sunrise"`
	Sunset      time.Time   `json:"sunset"`
	Timezone    int         `json:"timezone"` // offset from UTC in seconds
	Dt          time.Time   `json:"dt"`
	Coord       Coordinates `json:"coord"`
}

// HourlyEntry is one 3-hour forecast sample, normalized for presentation.
type HourlyEntry struct {
	Dt          time.Time `json:"dt"`
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feelsLike"`
	Humidity    int       `json:"humidity"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	IconURL     string    `json:"iconUrl"`
	WindSpeed   float64   `json:"windSpeed"`
	WindDeg     int       `json:"windDeg"`
	Pop         int       `json:"pop"` // probability of precipitation, 0-100
	Clouds      int       `json:"clouds"`
}

// DailyEntry summarizes all forecast samples sharing one calendar day.
type DailyEntry struct {
	Dt          time.Time `json:"dt"`
	TempMax     int       `json:"tempMax"`
	TempMin     int       `json:"tempMin"`
	Icon        string    `json:"icon"`
	IconURL     string    `json:"iconUrl"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	Pop         int       `json:"pop"` // max probability across the day, 0-100
}

// Result is the aggregated outcome of one weather lookup. On success the
// three sub-resources are populated and FetchedAt records when they were
// joined; on failure ErrorCode carries one of the stable codes and City
// echoes the caller's original input for error messaging.
type Result struct {
	Success   bool           `json:"success"`
	Current   CurrentWeather `json:"current,omitzero"`
	Hourly    []HourlyEntry  `json:"hourly,omitempty"`
	Daily     []DailyEntry   `json:"daily,omitempty"`
	FetchedAt time.Time      `json:"fetchedAt,omitzero"`
	ErrorCode ErrorCode      `json:"errorCode,omitempty"`
	City      string         `json:"city,omitempty"`
}
