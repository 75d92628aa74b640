package profiling

import (
	"encoding/json"
	"math"
)

// JSONFloat maps NaN and ±Inf to nil so undefined statistics encode as null
func JSONFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON encodes undefined statistics as null
func (s NumericSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count    int      `json:"count"`
		Mean     *float64 `json:"mean"`
		StdDev   *float64 `json:"std"`
		Min      *float64 `json:"min"`
		Q25      *float64 `json:"q25"`
		Median   *float64 `json:"median"`
		Q75      *float64 `json:"q75"`
		Max      *float64 `json:"max"`
		Skewness *float64 `json:"skewness"`
	}{
		Count:    s.Count,
		Mean:     JSONFloat(s.Mean),
		StdDev:   JSONFloat(s.StdDev),
		Min:      JSONFloat(s.Min),
		Q25:      JSONFloat(s.Q25),
		Median:   JSONFloat(s.Median),
		Q75:      JSONFloat(s.Q75),
		Max:      JSONFloat(s.Max),
		Skewness: JSONFloat(s.Skewness),
	})
}
