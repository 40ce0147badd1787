package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestCheck(t *testing.T) {
	assert.Nil(t, Check(&sample{Name: "abc"}))

	fields := Check(&sample{Name: "toolong", Email: "nope"})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
}

type bound struct {
	RankNo *int   `json:"rank_no"`
	State  string `json:"state" binding:"max=3"`
}

func TestBind_ReportsFieldErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	cases := map[string]string{
		`{"rank_no":"abc"}`: "rank_no",
		`{"state":"kerala"}`: "state",
		`{not json`:          "detail",
	}
	for body, field := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		var dst bound
		fields := Bind(c, &dst)
		require.NotNil(t, fields, body)
		assert.Contains(t, fields, field, body)
	}
}
