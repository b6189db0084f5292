package middleware

import (
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

func TestBindHeader(t *testing.T) {
	type args struct {
		header map[string]string
		out    interface{}
	}

	type normalCase struct {
		App     string `header:"app"`
		Service string `header:"service"`

		Non   string `header:"-"`
		Empty bool
	}

	type complexCase struct {
		Nine              int64   `header:"nine"`
		ThousandAndSeven  uint64  `header:"thousand-and-seven"`
		NegativeThirtyTwo int64   `header:"negative-thirty-two"`
		HundredPointSix   float32 `header:"hundred-point-six"`
		Rose              *string `header:"rose"`
		Missing           *int    `header:"missing"`
	}

	tests := []struct {
		name string
		args args
		want interface{}
	}{
		{
			name: "normal bind header",
			args: args{
				header: map[string]string{
					"app":     "product-gateway",
					"service": "graphql",
					"non":     "non",
					"empty":   "empty",
				},
				out: new(normalCase),
			},
			want: &normalCase{
				App:     "product-gateway",
				Service: "graphql",
				Non:     "",
				Empty:   false,
			},
		},
		{
			name: "complex bind header",
			args: args{
				header: map[string]string{
					"nine":                "9",
					"thousand-and-seven":  "1007",
					"negative-thirty-two": "-32",
					"hundred-point-six":   "100.6",
					"rose":                "rose",
				},
				out: new(complexCase),
			},
			want: &complexCase{
				Nine:              9,
				ThousandAndSeven:  1007,
				NegativeThirtyTwo: -32,
				HundredPointSix:   100.6,
				Rose:              func() *string { s := "rose"; return &s }(),
				Missing:           nil,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tt.args.header {
				header.Set(k, v)
			}
			err := bindHeader(header, tt.args.out)
			assert.NoError(t, err)
			assert.EqualValues(t, tt.want, tt.args.out)
		})
	}
}

func TestBindHeader_WrongType(t *testing.T) {
	type out struct {
		Count int `header:"count"`
	}

	header := http.Header{}
	header.Set("count", "many")

	err := bindHeader(header, new(out))
	var be *BindError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Count", be.Field)
	assert.Equal(t, "count", be.Tag)
	assert.Equal(t, "many", be.Value)
}

func TestBindQuery(t *testing.T) {
	type out struct {
		Name  *string  `query:"name_contains"`
		Min   *float64 `query:"min_price"`
		Limit *int     `query:"limit"`
		Skip  *int     `query:"skip"`
	}

	t.Run("present and absent", func(t *testing.T) {
		var q out
		err := BindQuery(url.Values{
			"name_contains": {"lap"},
			"min_price":     {"12.5"},
			"limit":         {"0"},
		}, &q)
		require.NoError(t, err)
		require.NotNil(t, q.Name)
		assert.Equal(t, "lap", *q.Name)
		require.NotNil(t, q.Min)
		assert.Equal(t, 12.5, *q.Min)
		require.NotNil(t, q.Limit)
		assert.Equal(t, 0, *q.Limit)
		assert.Nil(t, q.Skip)
	})

	t.Run("empty value is present", func(t *testing.T) {
		var q out
		require.NoError(t, BindQuery(url.Values{"name_contains": {""}}, &q))
		require.NotNil(t, q.Name)
		assert.Equal(t, "", *q.Name)
	})

	t.Run("unparsable value", func(t *testing.T) {
		var q out
		err := BindQuery(url.Values{"min_price": {"cheap"}}, &q)
		require.ErrorIs(t, err, models.ErrInvalidValue)
		me, ok := models.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "min_price", me.Field)
	})

	t.Run("out of range integers saturate", func(t *testing.T) {
		var q out
		err := BindQuery(url.Values{
			"limit": {"99999999999999999999"},
			"skip":  {"-99999999999999999999"},
		}, &q)
		require.NoError(t, err)
		require.NotNil(t, q.Limit)
		assert.Equal(t, math.MaxInt, *q.Limit)
		require.NotNil(t, q.Skip)
		assert.Equal(t, math.MinInt, *q.Skip)
	})

	t.Run("fractional integer", func(t *testing.T) {
		for _, v := range []string{"12.7", "1e3", " 5"} {
			var q out
			err := BindQuery(url.Values{"limit": {v}}, &q)
			require.ErrorIs(t, err, models.ErrInvalidValue, v)
			me, ok := models.AsError(err)
			require.True(t, ok)
			assert.Equal(t, "limit", me.Field)
		}
	})
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   auth.Credential
	}{
		{
			name: "no headers",
			want: auth.APIKey(""),
		},
		{
			name:   "api key",
			header: map[string]string{HeaderAPIKey: "secret123"},
			want:   auth.APIKey("secret123"),
		},
		{
			name:   "authorization",
			header: map[string]string{echo.HeaderAuthorization: "Bearer abc"},
			want:   auth.Bearer("Bearer abc"),
		},
		{
			name: "api key wins",
			header: map[string]string{
				HeaderAPIKey:             "secret123",
				echo.HeaderAuthorization: "Bearer abc",
			},
			want: auth.APIKey("secret123"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var got auth.Credential
			err := Credentials()(func(c echo.Context) error {
				got = GetCredential(c)
				return nil
			})(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
