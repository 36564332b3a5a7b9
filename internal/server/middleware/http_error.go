package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const statusClientClosedRequest = 499

// ErrorHandler renders every handler error as a ResponseError envelope. Errors carrying
// a gRPC status get the matching HTTP status.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := toResponseError(c, err)
		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}
		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "status", resp.Status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}

func toResponseError(c echo.Context, err error) *ResponseError {
	var (
		he *echo.HTTPError
		re *ResponseError
	)
	switch {
	case errors.As(err, &re):
		return re
	case errors.As(err, &he):
		return &ResponseError{
			Status:       he.Code,
			Err:          err,
			ErrorMessage: fmt.Sprint(he.Message),
		}
	}

	// detect canceled request error
	if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
		return &ResponseError{Status: statusClientClosedRequest, Err: err, ErrorMessage: "request canceled"}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return &ResponseError{
			Status:       httpStatusFromCode(st.Code()),
			Err:          err,
			ErrorCode:    st.Code().String(),
			ErrorMessage: st.Message(),
		}
	}

	return &ResponseError{
		Status:       http.StatusInternalServerError,
		Err:          err,
		ErrorMessage: http.StatusText(http.StatusInternalServerError),
	}
}

func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted, codes.FailedPrecondition:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Canceled:
		return statusClientClosedRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
