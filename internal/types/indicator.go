package types

type IndicatorType string

const (
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
)
