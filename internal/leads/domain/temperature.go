package domain

// Temperature is an urgency/attractiveness classification computed at
// read time from deal value, pipeline stage, and recency. It is a
// separate axis from the lead score, which measures intrinsic lead
// quality, and is never persisted.
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)
