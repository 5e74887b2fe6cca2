package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidInstrument    ErrorCode = 103
	ErrCodeInvalidBar           ErrorCode = 104
	ErrCodeInvalidBarType       ErrorCode = 105
	ErrCodeInvalidInstrumentID  ErrorCode = 106
	ErrCodeInvalidMoney         ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound      ErrorCode = 200
	ErrCodeQueryFailed       ErrorCode = 202
	ErrCodeCSVParseFailed    ErrorCode = 203
	ErrCodeCatalogWrite      ErrorCode = 204
	ErrCodeCatalogRead       ErrorCode = 205
	ErrCodeCatalogIncompat   ErrorCode = 206
	ErrCodeUnknownInstrument ErrorCode = 207

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound    ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 302
	ErrCodeUnsupportedMAType    ErrorCode = 303

	// Component errors (400-499)
	ErrCodeComponentNotRegistered ErrorCode = 400
	ErrCodeComponentConfigError   ErrorCode = 401
	ErrCodeComponentHandlerError  ErrorCode = 402
	ErrCodeDuplicateComponent     ErrorCode = 403
	ErrCodeDuplicateTimer         ErrorCode = 404
	ErrCodeInvalidTimer           ErrorCode = 405
	ErrCodeSubscriptionFailed     ErrorCode = 406

	// Trading errors (500-599)
	ErrCodeOrderDenied      ErrorCode = 500
	ErrCodeOrderNotFound    ErrorCode = 501
	ErrCodeNoMarket         ErrorCode = 502
	ErrCodeInsufficientFree ErrorCode = 503
	ErrCodeVenueNotFound    ErrorCode = 504
	ErrCodeDuplicateVenue   ErrorCode = 505

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed  ErrorCode = 601
	ErrCodeBacktestConfigError ErrorCode = 602
	ErrCodeBacktestNoData      ErrorCode = 603
	ErrCodeBacktestNoComponent ErrorCode = 604
	ErrCodeBacktestDisposed    ErrorCode = 605
	ErrCodeBacktestRunning     ErrorCode = 606
	ErrCodeResultsWriteFailed  ErrorCode = 607

	// State machine errors (900-999)
	ErrCodeInvalidStateTrigger ErrorCode = 900
)
