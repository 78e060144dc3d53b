package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/middleware"
)

// Validator is implemented by request DTOs that check themselves.
type Validator interface {
	Validate() error
}

// BuildRequestAndValidate binds the JSON body into T and runs its Validate
// method when it has one.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req := new(T)
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// ResponseBuilder writes the standard success and error envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends data with statusCode. A non-empty messageKey is translated
// into the envelope message.
func (b *ResponseBuilder) Success(statusCode int, data interface{}, messageKey string) {
	resp := dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now(),
	}
	if messageKey != "" {
		resp.Message = i18n.T(b.c, messageKey)
	}
	b.c.JSON(statusCode, resp)
}

// SuccessOK sends data with 200 and no message.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data, "")
}

// Error sends an error envelope. An empty code is derived from the status;
// messageKey is translated for the request locale.
func (b *ResponseBuilder) Error(statusCode int, code, messageKey string, err error) {
	b.ErrorWithMessage(statusCode, code, i18n.T(b.c, messageKey), err)
}

// ErrorWithMessage sends an error envelope with an already-rendered message
// and aborts the chain. err is recorded on the context for the error
// middleware; a *dto.ValidationError also fills Details.
func (b *ResponseBuilder) ErrorWithMessage(statusCode int, code, message string, err error) {
	if code == "" {
		code = dto.ErrCodeFromStatus(statusCode)
	}
	resp := dto.NewError(code, message).WithRequestID(middleware.GetRequestID(b.c))

	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			resp = resp.WithDetail(ve.Field, ve.Message)
		}
		_ = b.c.Error(err)
	}

	b.c.AbortWithStatusJSON(statusCode, resp)
}
