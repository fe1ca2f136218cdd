package paging

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitsClamp(t *testing.T) {
	l := Limits{Default: 10, Max: 50}
	assert.Equal(t, 10, l.Clamp(0))
	assert.Equal(t, 10, l.Clamp(-1))
	assert.Equal(t, 1, l.Clamp(1))
	assert.Equal(t, 50, l.Clamp(50))
	assert.Equal(t, 50, l.Clamp(51))

	broken := Limits{Default: 500, Max: 0}
	assert.Equal(t, MaxLimit, broken.Clamp(0))
	assert.Equal(t, MaxLimit, broken.Clamp(1000))

	assert.Equal(t, Params{Limit: DefaultLimit}, NormalizeParams(Params{}, DefaultLimits()))
}

func TestTokenRoundTrip(t *testing.T) {
	type payload struct {
		Name string `json:"n"`
		At   int64  `json:"t"`
	}
	in := payload{Name: "project/α?&=", At: -42}

	token, err := EncodeToken(in)
	require.NoError(t, err)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	var out payload
	require.NoError(t, DecodeToken(token, &out))
	assert.Equal(t, in, out)

	again, err := EncodeToken(in)
	require.NoError(t, err)
	assert.Equal(t, token, again, "encoding is deterministic")
}

func TestDecodeTokenRejects(t *testing.T) {
	type payload struct {
		Name string `json:"n"`
	}
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	cases := map[string]string{
		"empty":          "",
		"not base64":     "***",
		"not json":       enc("hello"),
		"wrong version":  enc(`{"v":2,"p":{"n":"a"}}`),
		"no payload":     enc(`{"v":1}`),
		"null payload":   enc(`{"v":1,"p":null}`),
		"unknown field":  enc(`{"v":1,"p":{"n":"a","x":1}}`),
		"unknown outer":  enc(`{"v":1,"p":{"n":"a"},"x":1}`),
		"trailing data":  enc(`{"v":1,"p":{"n":"a"}}{}`),
		"wrong type":     enc(`{"v":1,"p":{"n":7}}`),
		"padded base64":  base64.URLEncoding.EncodeToString([]byte(`{"v":1,"p":{"n":"ab"}}`)),
		"oversized blob": string(make([]byte, MaxTokenLength+1)),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			var out payload
			assert.ErrorIs(t, DecodeToken(token, &out), ErrMalformedToken)
		})
	}
}

func TestTake(t *testing.T) {
	ctx := context.Background()

	items, more, err := Take(ctx, FromSlice([]int{1, 2, 3}), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, items)
	assert.True(t, more)

	items, more, err = Take(ctx, FromSlice([]int{1, 2}), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, items)
	assert.False(t, more)

	items, more, err = Take(ctx, Empty[int](), 3)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, more)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}
