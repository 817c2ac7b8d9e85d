package textlayout

// ReferenceHeight is the frame height Options.Scale is expressed against.
const ReferenceHeight = 1080.0

// Position is a percentage of the frame's width (X) and height (Y).
type Position struct {
	X float64 `json:"x" validate:"gte=0 & lte=100"`
	Y float64 `json:"y" validate:"gte=0 & lte=100"`
}

// Options selects which telemetry fields are drawn, where, and how big.
type Options struct {
	Position Position `json:"position"`
	Scale    float64  `json:"scale" validate:"gte=10 & lte=200"`

	ShowTime      bool `json:"show_time"`
	ShowSkyBat    bool `json:"show_sky_bat"`
	ShowGroundBat bool `json:"show_ground_bat"`
	ShowSignal    bool `json:"show_signal"`
	ShowLatency   bool `json:"show_latency"`
	ShowBitrate   bool `json:"show_bitrate"`
	ShowDistance  bool `json:"show_distance"`

	ShowChannel    bool `json:"show_channel"`
	ShowSNR        bool `json:"show_snr"`
	ShowGroundTemp bool `json:"show_ground_temp"`
	ShowSkyTemp    bool `json:"show_sky_temp"`
	ShowFrame      bool `json:"show_frame"`
	ShowErr        bool `json:"show_err"`
	ShowISO        bool `json:"show_iso"`
	ShowGain       bool `json:"show_gain"`
	ShowCCT        bool `json:"show_cct"`
	ShowRB         bool `json:"show_rb"`
}

// DefaultOptions shows the regular flight readout along the bottom edge.
func DefaultOptions() Options {
	return Options{
		Position:      Position{X: 1.5, Y: 95},
		Scale:         35,
		ShowTime:      true,
		ShowSkyBat:    true,
		ShowGroundBat: true,
		ShowSignal:    true,
		ShowLatency:   true,
		ShowBitrate:   true,
		ShowDistance:  true,
	}
}
