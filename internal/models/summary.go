package models

// Summary is the aggregate report over the cleaned and classified table
type Summary struct {
	TotalRecords  int     `json:"total_records"`
	AvgTemp       float64 `json:"avg_temp"`
	AvgHumidity   float64 `json:"avg_humidity"`
	AvgCO2        float64 `json:"avg_co2"`
	HighCO2Alerts int     `json:"high_co2_alerts"`
}
