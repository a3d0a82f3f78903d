package helper

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	customErrors "github.com/roysitumorang/raket/errors"
)

const (
	APP = "raket"
)

type (
	// Response is the envelope every endpoint answers with.
	Response struct {
		RequestID  string    `json:"request_id" example:"0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f60"`
		RequestURL string    `json:"request_url" example:"GET http://localhost:8080/v1/transactions"`
		StatusCode int       `json:"status_code" example:"200"`
		Status     string    `json:"status" example:"OK"`
		Message    string    `json:"message" example:""`
		Timestamp  time.Time `json:"timestamp" example:"2024-03-01T09:15:00.000000000+07:00"`
		Latency    string    `json:"latency" example:"3.114512ms"`
		Data       any       `json:"data,omitempty"`
		App        string    `json:"app" example:"raket"`
	}
)

func NewResponse(statusCode int) *Response {
	return &Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Timestamp:  time.Now(),
		App:        APP,
	}
}

// NewErrorResponse answers with the status carried by err, or fallback when
// err carries none, and err's text as the message.
func NewErrorResponse(err error, fallback int) *Response {
	return NewResponse(customErrors.StatusCode(err, fallback)).SetMessage(err.Error())
}

func (r *Response) SetMessage(message string) *Response {
	r.Message = message
	return r
}

func (r *Response) SetData(data any) *Response {
	r.Data = data
	return r
}

func requestURL(c *fiber.Ctx) string {
	var builder strings.Builder
	_, _ = builder.WriteString(c.Method())
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(c.BaseURL())
	_, _ = builder.WriteString(c.OriginalURL())
	return builder.String()
}

func (r *Response) WriteResponse(c *fiber.Ctx) error {
	if r.StatusCode == fiber.StatusNoContent {
		return c.SendStatus(r.StatusCode)
	}
	r.RequestURL = requestURL(c)
	r.RequestID = ByteSlice2String(c.Response().Header.Peek(fiber.HeaderXRequestID))
	r.Latency = time.Since(c.Context().Time()).String()
	return c.Status(r.StatusCode).JSON(r)
}
