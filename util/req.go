package util

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"strings"
)

type HTTPError struct {
	Status  int
	Message string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	DbHTTPErr = HTTPError{
		Message: "database error",
		Status:  http.StatusInternalServerError,
	}
	MalformedIdHTTPErr = HTTPError{
		Message: "id malformed",
		Status:  http.StatusBadRequest,
	}
	MalformedCursorHTTPErr = HTTPError{
		Message: "cursor malformed",
		Status:  http.StatusBadRequest,
	}
	NotFoundHTTPErr = HTTPError{
		Message: "not found",
		Status:  http.StatusNotFound,
	}
)

type HandlerOpts struct {
	// Status used for successful responses. Defaults to 200
	SuccessStatus int
}

type Handler func(c *gin.Context) (interface{}, *HTTPError)

// HandlerWrapper turns a Handler into a gin handler writing the standard
// {"success", "data"|"message"} envelope.
func HandlerWrapper(handler Handler, opts *HandlerOpts) gin.HandlerFunc {
	status := http.StatusOK
	if opts != nil && opts.SuccessStatus != 0 {
		status = opts.SuccessStatus
	}
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		c.JSON(status, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

/*
	HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
	break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, gin.H{
		"success": false,
		"message": err.Message,
	})
}

func BuildDbHTTPErr(err error) *HTTPError {
	slog.Error("database error occurred", "error", err)
	httpErr := DbHTTPErr
	return &httpErr
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: err.Error(),
	}
}

// ParseId validates an opaque document id taken from a path param.
func ParseId(raw string) (string, *HTTPError) {
	id := strings.TrimSpace(raw)
	if id == "" || strings.ContainsAny(id, "/") || len(id) > 1500 {
		httpErr := MalformedIdHTTPErr
		return "", &httpErr
	}
	return id, nil
}
