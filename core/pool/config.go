package pool

// Config defines the initial capacity of every resource ledger.
type Config struct {
	WaterCapacity      float64            `json:"water_capacity"`       // liters per day
	WaterMaxConcurrent int                `json:"water_max_concurrent"` // requesters per hour slot
	FertilizerStock    map[string]float64 `json:"fertilizer_stock"`     // kg per subtype
	ApplicationRate    float64            `json:"application_rate"`     // kg per hour
	EquipmentUnits     map[string]int     `json:"equipment_units"`      // physical units per subtype
	Workers            int                `json:"workers"`

	// Thresholds for external predictor capacity hints.
	HintNeedThreshold       float64 `json:"hint_need_threshold"`
	HintConfidenceThreshold float64 `json:"hint_confidence_threshold"`
	HintScale               float64 `json:"hint_scale"`
}

// SetDefaults fills unset fields with the standard farm profile.
func (c *Config) SetDefaults() {
	if c.WaterCapacity == 0 {
		c.WaterCapacity = 10000
	}
	if c.WaterMaxConcurrent == 0 {
		c.WaterMaxConcurrent = 4
	}
	if c.FertilizerStock == nil {
		c.FertilizerStock = map[string]float64{
			"nitrogen":   500,
			"phosphorus": 300,
			"potassium":  400,
		}
	}
	if c.ApplicationRate == 0 {
		c.ApplicationRate = 25
	}
	if c.EquipmentUnits == nil {
		c.EquipmentUnits = map[string]int{
			"tractor":         2,
			"irrigation_pump": 4,
			"sprayer":         3,
			"harvester":       1,
		}
	}
	if c.Workers == 0 {
		c.Workers = 8
	}
	if c.HintNeedThreshold == 0 {
		c.HintNeedThreshold = 0.8
	}
	if c.HintConfidenceThreshold == 0 {
		c.HintConfidenceThreshold = 0.7
	}
	if c.HintScale == 0 {
		c.HintScale = 1.2
	}
}
