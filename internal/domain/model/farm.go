package model

// SquareMetersPerAre converts the "a" (are) unit used for farm sizing.
const SquareMetersPerAre = 100.0

// Location is a WGS84 coordinate.
type Location struct {
	Longitude float64 `json:"longitude" example:"127.1295"`
	Latitude  float64 `json:"latitude" example:"37.5943"`
}

// PlantedCrop is a crop currently growing on the farm.
type PlantedCrop struct {
	Name        string `json:"name" example:"맥주보리"`
	PlantedAt   string `json:"planted_at" example:"2025-04-01"`
	GrowthStage string `json:"growth_stage" example:"growing"`
}

// FarmProfile is the stored description of the farm the service works for.
// It is read-mostly and passed by value into the recommendation pipeline.
//
// @Description Farm profile used for defaults
type FarmProfile struct {
	ID        string        `json:"id" example:"farm001"`
	Name      string        `json:"name" example:"김농부네 농장"`
	Owner     string        `json:"owner,omitempty"`
	Address   string        `json:"address" example:"경기도 구리시 인창동 123-45"`
	StationID string        `json:"station_id" example:"108"`
	AreaM2    float64       `json:"area_m2" example:"25000"`
	Location  Location      `json:"location"`
	Crops     []PlantedCrop `json:"crops"`
	Soil      SoilSample    `json:"soil"`
}

// AreaA returns the farm area in ares.
func (f FarmProfile) AreaA() float64 {
	return f.AreaM2 / SquareMetersPerAre
}

// CropNames returns the names of the planted crops in order.
func (f FarmProfile) CropNames() []string {
	names := make([]string, 0, len(f.Crops))
	for _, c := range f.Crops {
		names = append(names, c.Name)
	}
	return names
}

// FarmSizing reports the farm area in the units used by prescriptions.
type FarmSizing struct {
	AreaM2  float64 `json:"area_m2" example:"25000"`
	AreaA   float64 `json:"area_a" example:"250"`
	Area10A float64 `json:"area_10a" example:"25"`
}

// NewFarmSizing derives all area units from square meters.
func NewFarmSizing(areaM2 float64) FarmSizing {
	return FarmSizing{
		AreaM2:  areaM2,
		AreaA:   Round(areaM2/SquareMetersPerAre, 1),
		Area10A: Round(areaM2/1000, 1),
	}
}
