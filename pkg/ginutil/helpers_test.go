package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(target string, params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	c.Params = params
	return c
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing", "/notes", 7},
		{"empty", "/notes?limit=", 7},
		{"number", "/notes?limit=25", 25},
		{"negative", "/notes?limit=-3", -3},
		{"not a number", "/notes?limit=abc", 7},
		{"fraction", "/notes?limit=2.5", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(tt.target, nil)
			assert.Equal(t, tt.want, QueryInt(c, "limit", 7))
		})
	}
}

func TestParamUint64(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    uint64
		wantErr bool
	}{
		{"valid", "42", 42, false},
		{"zero", "0", 0, true},
		{"negative", "-1", 0, true},
		{"plus sign", "+5", 0, true},
		{"text", "abc", 0, true},
		{"empty", "", 0, true},
		{"overflow", "18446744073709551616", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext("/notes/"+tt.raw, gin.Params{{Key: "id", Value: tt.raw}})
			got, err := ParamUint64(c, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
