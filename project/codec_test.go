package project

import (
	"encoding/base64"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncobase/scanpage/paging"
)

func TestSelectorCodecRoundTrip(t *testing.T) {
	at := time.Date(2020, 7, 13, 17, 35, 0, 123456789, time.UTC)
	selectors := []PageSelector{
		NameSelector{Dir: paging.Ascending, Name: "project001"},
		NameSelector{Dir: paging.Descending, Name: "project999"},
		NameSelector{Dir: paging.Ascending, Name: ""},
		NameSelector{Dir: paging.Ascending, Name: "with spaces/slashes?&=#%"},
		NameSelector{Dir: paging.Descending, Name: "ünïcødé ☃"},
		NewMtimeNameSelector(paging.Descending, at, "project042"),
		NewMtimeNameSelector(paging.Ascending, at, "project042"),
		NewMtimeNameSelector(paging.Descending, time.Unix(0, 0), ""),
		NewMtimeNameSelector(paging.Descending, time.Date(1901, 1, 1, 0, 0, 0, 1, time.UTC), "old"),
		NewMtimeNameSelector(paging.Ascending, time.Unix(0, math.MaxInt64), "far"),
		NewMtimeNameSelector(paging.Descending, MaxMtime, "max"),
		NewMtimeNameSelector(paging.Descending, MinMtime, "min"),
		NewMtimeNameSelector(paging.Descending, at.In(time.FixedZone("X", 3600)), "zoned"),
	}

	var codec SelectorCodec
	for _, s := range selectors {
		token, err := codec.Encode(s)
		require.NoError(t, err, "%v", s)
		assert.Regexp(t, `^[A-Za-z0-9_-]+$`, token)

		decoded, err := codec.Decode(token)
		require.NoError(t, err, "%v", s)
		assert.Equal(t, s, decoded)
		assert.True(t, s == decoded, "%v != %v", s, decoded)
	}
}

func TestSelectorCodecEncodeRejects(t *testing.T) {
	var codec SelectorCodec
	_, err := codec.Encode(nil)
	assert.Error(t, err)

	_, err = codec.Encode(NameSelector{Dir: "up", Name: "x"})
	assert.Error(t, err)

	for _, at := range []time.Time{
		time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC),
		{},
		MaxMtime.Add(time.Nanosecond),
	} {
		_, err = codec.Encode(NewMtimeNameSelector(paging.Descending, at, "x"))
		assert.ErrorIs(t, err, ErrMtimeRange, "%v", at)
	}
}

func TestSelectorCodecDecodeRejects(t *testing.T) {
	wrap := func(payload string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(`{"v":1,"p":` + payload + `}`))
	}

	cases := map[string]string{
		"garbage":              "not a token",
		"unknown kind":         wrap(`{"k":"size","o":"asc","n":"a"}`),
		"missing kind":         wrap(`{"o":"asc","n":"a"}`),
		"invalid order":        wrap(`{"k":"name","o":"up","n":"a"}`),
		"missing order":        wrap(`{"k":"name","n":"a"}`),
		"missing name":         wrap(`{"k":"name","o":"asc"}`),
		"null name":            wrap(`{"k":"name","o":"asc","n":null}`),
		"name with mtime":      wrap(`{"k":"name","o":"asc","t":5,"n":"a"}`),
		"mtime without mtime":  wrap(`{"k":"mtime_name","o":"desc","n":"a"}`),
		"mtime wrong type":     wrap(`{"k":"mtime_name","o":"desc","t":"yesterday","n":"a"}`),
		"mtime overflow":       wrap(`{"k":"mtime_name","o":"desc","t":99999999999999999999,"n":"a"}`),
		"extra field":          wrap(`{"k":"name","o":"asc","n":"a","limit":5}`),
		"payload not object":   wrap(`["name","asc","a"]`),
		"truncated":            wrap(`{"k":"name","o":"asc","n":"a"}`)[:20],
	}

	var codec SelectorCodec
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := codec.Decode(token)
			assert.ErrorIs(t, err, paging.ErrMalformedToken)
			assert.Nil(t, s)
		})
	}
}

func TestSelectorCodecStableFormat(t *testing.T) {
	// Tokens issued by earlier builds must keep decoding.
	token := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"v":1,"p":{"k":"mtime_name","o":"desc","t":1594661700000000000,"n":"project001"}}`))

	s, err := SelectorCodec{}.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, NewMtimeNameSelector(paging.Descending, DefaultSeedStart, "project001"), s)

	encoded, err := SelectorCodec{}.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, token, encoded)
}
