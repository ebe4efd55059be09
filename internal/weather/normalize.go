package weather

import (
	"math"
	"strings"
	"time"
)

const (
	iconURLBase = "https://openweathermap.org/img/wn/"

	// hourlyEntries caps the hourly view at 48 hours of 3-hour samples.
	hourlyEntries = 16

	// dailyEntries caps the daily view at the provider's 5-day horizon.
	dailyEntries = 5
)

// compassPoints is the 8-point compass rose starting at north.
var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// NormalizeCityName produces the canonical cache-key form of a city name:
// lowercase, trimmed, with internal whitespace collapsed to single spaces.
// The raw input is still what gets sent upstream.
func NormalizeCityName(city string) string {
	return strings.Join(strings.Fields(strings.ToLower(city)), " ")
}

// WindDirection maps degrees from north to an 8-point compass label.
// Values outside [0, 360) wrap around, including negative input.
func WindDirection(deg float64) string {
	idx := int(math.Round(deg/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return compassPoints[idx]
}

// NormalizeCurrent converts a raw current-weather payload into the
// presentation snapshot: temperatures rounded to whole degrees, visibility
// converted from meters to kilometers, epoch seconds expanded to timestamps.
func NormalizeCurrent(p CurrentPayload) CurrentWeather {
	cond := firstCondition(p.Weather)

	return CurrentWeather{
		City:        p.Name,
		Country:     p.Sys.Country,
		Temperature: roundInt(p.Main.Temp),
		FeelsLike:   roundInt(p.Main.FeelsLike),
		TempMin:     roundInt(p.Main.TempMin),
		TempMax:     roundInt(p.Main.TempMax),
		Humidity:    p.Main.Humidity,
		Pressure:    p.Main.Pressure,
		WindSpeed:   p.Wind.Speed,
		WindDeg:     p.Wind.Deg,
		Description: cond.Description,
		Icon:        cond.Icon,
		IconURL:     iconURL(cond.Icon, "4x"),
		Visibility:  float64(p.Visibility) / 1000,
		Clouds:      p.Clouds.All,
		Sunrise:     time.Unix(p.Sys.Sunrise, 0),
		Sunset:      time.Unix(p.Sys.Sunset, 0),
		Timezone:    p.Timezone,
		Dt:          time.Unix(p.Dt, 0),
		Coord:       p.Coord,
	}
}

// NormalizeHourly converts the first 16 forecast samples (48 hours at
// 3-hour resolution) into hourly entries, in provider order.
func NormalizeHourly(items []ForecastItem) []HourlyEntry {
	if len(items) > hourlyEntries {
		items = items[:hourlyEntries]
	}

	hourly := make([]HourlyEntry, 0, len(items))
	for _, item := range items {
		cond := firstCondition(item.Weather)
		hourly = append(hourly, HourlyEntry{
			Dt:          time.Unix(item.Dt, 0),
			Temperature: roundInt(item.Main.Temp),
			FeelsLike:   roundInt(item.Main.FeelsLike),
			Humidity:    item.Main.Humidity,
			Description: cond.Description,
			Icon:        cond.Icon,
			IconURL:     iconURL(cond.Icon, "2x"),
			WindSpeed:   item.Wind.Speed,
			WindDeg:     item.Wind.Deg,
			Pop:         popPercent(item.Pop),
			Clouds:      item.Clouds.All,
		})
	}
	return hourly
}

// dayBucket accumulates the raw samples of one calendar day.
type dayBucket struct {
	dt           time.Time
	temps        []float64
	icons        []string
	descriptions []string
	humidity     []int
	pops         []float64
}

// NormalizeDaily buckets forecast samples by calendar date (local day
// boundary of the sample timestamp) and derives one summary per day, at most
// five, in the order the days first appear in the source list. Temperatures
// stay raw inside the bucket and are rounded only at output.
func NormalizeDaily(items []ForecastItem) []DailyEntry {
	buckets := make(map[string]*dayBucket)
	var order []string

	for _, item := range items {
		ts := time.Unix(item.Dt, 0)
		key := ts.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{dt: ts}
			buckets[key] = b
			order = append(order, key)
		}

		cond := firstCondition(item.Weather)
		b.temps = append(b.temps, item.Main.Temp)
		b.icons = append(b.icons, cond.Icon)
		b.descriptions = append(b.descriptions, cond.Description)
		b.humidity = append(b.humidity, item.Main.Humidity)
		b.pops = append(b.pops, item.Pop)
	}

	if len(order) > dailyEntries {
		order = order[:dailyEntries]
	}

	daily := make([]DailyEntry, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		icon := daytimeIcon(b.icons)
		daily = append(daily, DailyEntry{
			Dt:          b.dt,
			TempMax:     roundInt(maxFloat(b.temps)),
			TempMin:     roundInt(minFloat(b.temps)),
			Icon:        icon,
			IconURL:     iconURL(icon, "2x"),
			Description: b.descriptions[len(b.descriptions)/2],
			Humidity:    roundInt(avgInt(b.humidity)),
			Pop:         popPercent(maxFloat(b.pops)),
		})
	}
	return daily
}

// daytimeIcon prefers the first day-coded icon (suffix "d") over the first
// icon of the bucket, so the daily card shows a daylight glyph when one exists.
func daytimeIcon(icons []string) string {
	for _, icon := range icons {
		if strings.HasSuffix(icon, "d") {
			return icon
		}
	}
	return icons[0]
}

// firstCondition returns the leading weather condition, or a zero value when
// the provider sends an empty array.
func firstCondition(conds []ConditionPayload) ConditionPayload {
	if len(conds) == 0 {
		return ConditionPayload{}
	}
	return conds[0]
}

// iconURL builds the provider's icon image URL at the given scale.
func iconURL(icon, scale string) string {
	return iconURLBase + icon + "@" + scale + ".png"
}

// popPercent converts a 0.0-1.0 precipitation probability to a rounded
// 0-100 integer.
func popPercent(pop float64) int {
	return roundInt(pop * 100)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func maxFloat(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minFloat(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func avgInt(vs []int) float64 {
	sum := 0
	for _, v := range vs {
		sum += v
	}
	return float64(sum) / float64(len(vs))
}
