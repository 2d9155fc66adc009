package errors

// ErrorCode identifies the failure class of an Error.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown   ErrorCode = 1
	ErrCodeCancelled ErrorCode = 2

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingColumn        ErrorCode = 102
	ErrCodeLengthMismatch       ErrorCode = 103
	ErrCodeDuplicateColumn      ErrorCode = 104
	ErrCodeInvalidArgument      ErrorCode = 105
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110

	// Data errors (200-299)
	ErrCodeDataNotFound  ErrorCode = 200
	ErrCodeQueryFailed   ErrorCode = 202
	ErrCodeNoDataFound   ErrorCode = 204
	ErrCodeColumnKind    ErrorCode = 205
	ErrCodeTableNotFound ErrorCode = 206

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidTimespan       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704
	ErrCodeSymbolNotFound        ErrorCode = 705

	// Persistence errors (800-899)
	ErrCodeSinkOpenFailed     ErrorCode = 800
	ErrCodeSinkWriteFailed    ErrorCode = 801
	ErrCodeSinkReadFailed     ErrorCode = 802
	ErrCodeUnsupportedSink    ErrorCode = 803
	ErrCodeSchemaCreateFailed ErrorCode = 804
)
