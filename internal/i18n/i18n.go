// Package i18n translates user-facing messages. Korean is the default
// locale; English is selected through Accept-Language.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the locale used when none is requested.
	DefaultLocale = "ko"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the built-in messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: defaultMessages,
	}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to the
// default locale and then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msgs, ok := t.messages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supported reports whether locale has a message table.
func (t *Translator) Supported(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale picks the first language of the Accept-Language header when it is
// supported, e.g. "en-US,en;q=0.9" gives "en".
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	if idx := strings.Index(first, "-"); idx > 0 {
		first = first[:idx]
	}
	lang := strings.ToLower(first)
	if GetTranslator().Supported(lang) {
		return lang
	}
	return DefaultLocale
}

// T translates key for the request's locale.
func T(c *gin.Context, key string) string {
	return GetTranslator().Translate(key, GetLocale(c))
}

var defaultMessages = map[string]map[string]string{
	"ko": {
		ErrKeyInvalidRequest:      "잘못된 요청입니다",
		ErrKeyInvalidRequestBody:  "요청 본문을 해석할 수 없습니다",
		ErrKeyInternalError:       "예기치 않은 오류가 발생했습니다",
		ErrKeyNotFound:            "찾을 수 없습니다",
		ErrKeyRateLimitExceeded:   "요청이 너무 많습니다. 잠시 후 다시 시도하세요",
		ErrKeyTimeout:             "요청 처리 시간이 초과되었습니다",
		ErrKeyServiceUnavailable:  "서비스를 일시적으로 사용할 수 없습니다",
		ErrKeyUnsupportedCrop:     "지원하지 않는 작물입니다",
		ErrKeyInvalidSoil:         "토양 검정 값이 올바르지 않습니다",
		ErrKeyInvalidArea:         "농장 면적은 0보다 커야 합니다",
		ErrKeyTooManyCrops:        "한 번에 최대 3개 작물까지 요청할 수 있습니다",
		ErrKeyNoCrops:             "작물을 하나 이상 입력하세요",
		ErrKeyUpstreamUnavailable: "토양 비료 처방 정보를 가져올 수 없습니다",
		ErrKeyCropNotTracked:      "등록되지 않은 작물입니다",
		ErrKeyChatUnavailable:     "상담 서비스를 사용할 수 없습니다",
		ErrKeyEmptyMessage:        "질문을 입력하세요",
		ErrKeyWeatherUnavailable:  "기상 관측 정보를 가져올 수 없습니다",
		ErrKeyInvalidPhase:        "시비 구분은 base 또는 topdress 중 하나여야 합니다",

		SuccessKeyRecommendation:  "비료 추천이 완료되었습니다",
		SuccessKeyTrackedUpdated:  "재배 작물이 갱신되었습니다",
		SuccessKeyTrackedRemoved:  "재배 작물이 삭제되었습니다",
		SuccessKeyReferenceReload: "기준 데이터를 다시 불러왔습니다",
		SuccessKeyWeatherUpdated:  "날씨 정보가 갱신되었습니다",
		SuccessKeyDegraded:        "토양 API를 사용할 수 없어 표준 처방으로 계산했습니다",
	},
	"en": {
		ErrKeyInvalidRequest:      "Invalid request",
		ErrKeyInvalidRequestBody:  "Invalid request body",
		ErrKeyInternalError:       "An unexpected error occurred",
		ErrKeyNotFound:            "Not found",
		ErrKeyRateLimitExceeded:   "Too many requests, please try again later",
		ErrKeyTimeout:             "Request timed out",
		ErrKeyServiceUnavailable:  "Service temporarily unavailable",
		ErrKeyUnsupportedCrop:     "Unsupported crop",
		ErrKeyInvalidSoil:         "Invalid soil test value",
		ErrKeyInvalidArea:         "Farm area must be greater than zero",
		ErrKeyTooManyCrops:        "At most 3 crops can be requested at once",
		ErrKeyNoCrops:             "At least one crop is required",
		ErrKeyUpstreamUnavailable: "Soil fertilizer prescription is unavailable",
		ErrKeyCropNotTracked:      "Crop is not tracked",
		ErrKeyChatUnavailable:     "Chat assistant is unavailable",
		ErrKeyEmptyMessage:        "Message must not be empty",
		ErrKeyWeatherUnavailable:  "Weather observation is unavailable",
		ErrKeyInvalidPhase:        "Phase must be base or topdress",

		SuccessKeyRecommendation:  "Recommendation completed",
		SuccessKeyTrackedUpdated:  "Tracked crops updated",
		SuccessKeyTrackedRemoved:  "Tracked crop removed",
		SuccessKeyReferenceReload: "Reference data reloaded",
		SuccessKeyWeatherUpdated:  "Weather updated",
		SuccessKeyDegraded:        "Soil API unavailable; standard prescription used",
	},
}
