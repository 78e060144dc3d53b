package model

import "time"

// WeatherCondition is a coarse sky/temperature classification.
type WeatherCondition string

const (
	WeatherRainy  WeatherCondition = "비"
	WeatherCloudy WeatherCondition = "흐림"
	WeatherHot    WeatherCondition = "더움"
	WeatherClear  WeatherCondition = "맑음"
)

// WeatherObservation is a surface observation for one station.
// Nil fields were reported as missing by the observation network.
//
// @Description Current surface weather observation
type WeatherObservation struct {
	StationID     string           `json:"station_id" example:"108"`
	Temperature   *float64         `json:"temperature"`
	Humidity      *float64         `json:"humidity"`
	Precipitation *float64         `json:"precipitation"`
	CloudCover    *float64         `json:"cloud_cover"`
	Condition     WeatherCondition `json:"weather"`
	ObservedAt    time.Time        `json:"observed_at"`
}
