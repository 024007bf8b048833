package ginutil

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrNotPositive is returned by ParamUint64 for a zero path value
var ErrNotPositive = errors.New("value must be positive")

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// ParamUint64 extracts a positive decimal uint64 from path parameters.
// Signs, blanks and zero are rejected.
func ParamUint64(c *gin.Context, key string) (uint64, error) {
	value, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, ErrNotPositive
	}
	return value, nil
}
