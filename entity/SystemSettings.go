package entity

// SystemSettings are city-wide knobs kept in a JSON file rather than the
// database: map defaults for the client and the classifier's confidence floor.
type SystemSettings struct {
	CityName            string  `json:"city_name"`
	MapCenterLat        float64 `json:"map_center_lat"`
	MapCenterLng        float64 `json:"map_center_lng"`
	MapZoom             int     `json:"map_zoom"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}
