package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyServiceUnavailable = "error.service_unavailable"

	// ErrKeyUnsupportedCrop indicates a crop name missing from the crop table.
	ErrKeyUnsupportedCrop = "error.unsupported_crop"
	// ErrKeyInvalidSoil indicates a soil sample with an impossible value.
	ErrKeyInvalidSoil = "error.invalid_soil"
	// ErrKeyInvalidArea indicates a non-positive or non-finite farm area.
	ErrKeyInvalidArea = "error.invalid_area"
	// ErrKeyTooManyCrops indicates a batch above the per-request crop limit.
	ErrKeyTooManyCrops = "error.too_many_crops"
	// ErrKeyNoCrops indicates an empty crop list.
	ErrKeyNoCrops = "error.no_crops"
	// ErrKeyUpstreamUnavailable indicates the soil API failed and no fallback
	// was served.
	ErrKeyUpstreamUnavailable = "error.upstream_unavailable"
	// ErrKeyCropNotTracked indicates the crop is not in the tracked set.
	ErrKeyCropNotTracked = "error.crop_not_tracked"
	// ErrKeyChatUnavailable indicates the language model is disabled or down.
	ErrKeyChatUnavailable = "error.chat_unavailable"
	// ErrKeyEmptyMessage indicates a blank chat message.
	ErrKeyEmptyMessage = "error.empty_message"
	// ErrKeyWeatherUnavailable indicates no observation could be fetched.
	ErrKeyWeatherUnavailable = "error.weather_unavailable"
	// ErrKeyInvalidPhase indicates an unknown fertilizer phase filter.
	ErrKeyInvalidPhase = "error.invalid_phase"
)

// Success message translation keys.
const (
	SuccessKeyRecommendation  = "success.recommendation"
	SuccessKeyTrackedUpdated  = "success.tracked_updated"
	SuccessKeyTrackedRemoved  = "success.tracked_removed"
	SuccessKeyReferenceReload = "success.reference_reloaded"
	SuccessKeyWeatherUpdated  = "success.weather_updated"
	SuccessKeyDegraded        = "success.degraded"
)
