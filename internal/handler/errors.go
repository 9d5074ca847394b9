package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/metrics"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   apperr.Kind       `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var statusOf = map[apperr.Kind]int{
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindForbidden:       http.StatusForbidden,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindValidation:      http.StatusBadRequest,
	apperr.KindConflict:        http.StatusConflict,
	apperr.KindUnavailable:     http.StatusServiceUnavailable,
}

// kindOfStatus classifies errors raised by echo itself (unknown route,
// body too large, bad method).
func kindOfStatus(code int) apperr.Kind {
	switch {
	case code == http.StatusUnauthorized:
		return apperr.KindUnauthenticated
	case code == http.StatusForbidden:
		return apperr.KindForbidden
	case code == http.StatusNotFound || code == http.StatusMethodNotAllowed:
		return apperr.KindNotFound
	case code >= 400 && code < 500:
		return apperr.KindValidation
	}
	return apperr.KindUnavailable
}

// ErrorHandler renders errors returned by handlers and middleware.
// Unclassified errors are logged with the request id and reported as
// service_unavailable without detail.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := render(err)
		metrics.RecordError(string(body.Error))
		if body.Error == apperr.KindUnavailable {
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     c.Request().Method,
				"path":       c.Path(),
			}).Error("request failed")
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Warn("write error response")
		}
	}
}

func render(err error) (int, errorBody) {
	if ae, ok := apperr.As(err); ok {
		status, known := statusOf[ae.Kind]
		if !known {
			status = http.StatusServiceUnavailable
		}
		return status, errorBody{Error: ae.Kind, Message: ae.Message, Fields: ae.Fields}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind := kindOfStatus(he.Code)
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && kind != apperr.KindUnavailable {
			msg = s
		}
		return statusOf[kind], errorBody{Error: kind, Message: msg}
	}
	return http.StatusServiceUnavailable, errorBody{Error: apperr.KindUnavailable, Message: "service temporarily unavailable"}
}
