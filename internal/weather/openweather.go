package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/kioskdash/kioskdash/internal/fetch"
)

// Client talks to the OpenWeatherMap REST API: current conditions, the
// 5-day/3-hour forecast, and the air pollution endpoint.
type Client struct {
	apiKey string
	units  string
	query  string // "City,CC"
	tz     *time.Location

	currentURL  string
	forecastURL string
	airURL      string

	door *fetch.Door
}

// NewClient creates a Client for the given location query ("City,CC") and
// unit system.
func NewClient(httpClient *http.Client, apiKey, locationQuery, units string, tz *time.Location) *Client {
	return &Client{
		apiKey:      apiKey,
		units:       units,
		query:       locationQuery,
		tz:          tz,
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		airURL:      "https://api.openweathermap.org/data/2.5/air_pollution",
		door:        fetch.NewDoor("openweather", httpClient),
	}
}

// current holds the fields of a Snapshot populated from the current-conditions
// endpoint, plus the coordinates the API resolved the location query to.
type current struct {
	Temp        int
	FeelsLike   int
	Description string
	Icon        string
	Humidity    int
	WindSpeed   float64
	WindDir     string
	Sunrise     time.Time
	Sunset      time.Time
	Lat         float64
	Lon         float64
}

// Current fetches current conditions.
func (c *Client) Current(ctx context.Context) (current, error) {
	if c.apiKey == "" {
		return current{}, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Sys struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
	}

	if err := c.door.GetJSON(ctx, c.buildURL(c.currentURL, nil), nil, &payload); err != nil {
		return current{}, err
	}
	if len(payload.Weather) == 0 {
		return current{}, fmt.Errorf("openweather: response missing weather block")
	}
	if payload.Sys.Sunrise == 0 || payload.Sys.Sunset == 0 {
		return current{}, fmt.Errorf("openweather: response missing sun times")
	}

	return current{
		Temp:        round(payload.Main.Temp),
		FeelsLike:   round(payload.Main.FeelsLike),
		Description: titleCase(payload.Weather[0].Description),
		Icon:        payload.Weather[0].Icon,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   c.displayWindSpeed(payload.Wind.Speed),
		WindDir:     compassDirection(payload.Wind.Deg),
		Sunrise:     time.Unix(payload.Sys.Sunrise, 0).In(c.tz),
		Sunset:      time.Unix(payload.Sys.Sunset, 0).In(c.tz),
		Lat:         payload.Coord.Lat,
		Lon:         payload.Coord.Lon,
	}, nil
}

// Forecast fetches the 5-day/3-hour forecast and reduces it to one high/low
// per calendar day plus the next 24 hours as an hourly series.
func (c *Client) Forecast(ctx context.Context) ([]ForecastDay, []HourlyPoint, error) {
	if c.apiKey == "" {
		return nil, nil, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Icon string `json:"icon"`
			} `json:"weather"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Pop float64 `json:"pop"`
		} `json:"list"`
	}

	if err := c.door.GetJSON(ctx, c.buildURL(c.forecastURL, nil), nil, &payload); err != nil {
		return nil, nil, err
	}
	if len(payload.List) == 0 {
		return nil, nil, fmt.Errorf("openweather: empty forecast list")
	}

	type bucket struct {
		date     time.Time
		high     float64
		low      float64
		noonIcon string
		noonGap  time.Duration
	}
	byDay := make(map[string]*bucket)

	var hourly []HourlyPoint

	for _, entry := range payload.List {
		ts := time.Unix(entry.Dt, 0).In(c.tz)

		if len(hourly) < 8 {
			hourly = append(hourly, HourlyPoint{
				Time:      ts.Format("15:04"),
				Temp:      round(entry.Main.Temp),
				WindSpeed: c.displayWindSpeed(entry.Wind.Speed),
				Humidity:  entry.Main.Humidity,
				RainProb:  round(entry.Pop * 100),
			})
		}

		key := ts.Format("2006-01-02")
		b, ok := byDay[key]
		if !ok {
			b = &bucket{
				date:    time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, c.tz),
				high:    entry.Main.Temp,
				low:     entry.Main.Temp,
				noonGap: 24 * time.Hour,
			}
			byDay[key] = b
		}
		if entry.Main.Temp > b.high {
			b.high = entry.Main.Temp
		}
		if entry.Main.Temp < b.low {
			b.low = entry.Main.Temp
		}

		// Representative icon: the bucket closest to midday.
		if len(entry.Weather) > 0 {
			noon := b.date.Add(12 * time.Hour)
			gap := ts.Sub(noon)
			if gap < 0 {
				gap = -gap
			}
			if gap < b.noonGap {
				b.noonGap = gap
				b.noonIcon = entry.Weather[0].Icon
			}
		}
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	days := make([]ForecastDay, 0, 5)
	for _, k := range keys {
		if len(days) >= 5 {
			break
		}
		b := byDay[k]
		icon := b.noonIcon
		if icon == "" {
			icon = "01d"
		}
		days = append(days, ForecastDay{
			Day:  b.date.Format("Mon"),
			Date: b.date,
			High: round(b.high),
			Low:  round(b.low),
			Icon: icon,
		})
	}

	return days, hourly, nil
}

// AirPollution fetches the air quality index for the given coordinates.
func (c *Client) AirPollution(ctx context.Context, lat, lon float64) (AirQuality, error) {
	if c.apiKey == "" {
		return AirQuality{}, fmt.Errorf("openweather api key is not configured")
	}

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))

	if err := c.door.GetJSON(ctx, c.buildURL(c.airURL, params), nil, &payload); err != nil {
		return AirQuality{}, err
	}
	if len(payload.List) == 0 {
		return AirQuality{}, fmt.Errorf("openweather: empty air pollution list")
	}

	aqi := payload.List[0].Main.AQI
	return AirQuality{AQI: aqi, Status: aqiStatus(aqi)}, nil
}

func (c *Client) buildURL(base string, extra url.Values) string {
	values := url.Values{}
	values.Set("appid", c.apiKey)
	values.Set("units", c.units)
	if extra == nil || (extra.Get("lat") == "" && extra.Get("lon") == "") {
		values.Set("q", c.query)
	}
	for k, vs := range extra {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	return fmt.Sprintf("%s?%s", base, values.Encode())
}

// displayWindSpeed converts the API's wind speed into display units: m/s to
// km/h for metric, mph passes through for imperial.
func (c *Client) displayWindSpeed(speed float64) float64 {
	if c.units == "imperial" {
		return roundTo1(speed)
	}
	return roundTo1(speed * 3.6)
}
