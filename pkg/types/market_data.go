package types

import "time"

type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Asset is one entry of the investable universe.
type Asset struct {
	Name      string  `json:"name"`
	Variation float64 `json:"variation"`
	Beta      float64 `json:"beta"`
	Risk      float64 `json:"risk"`
}
