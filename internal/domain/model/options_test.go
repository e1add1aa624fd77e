package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(o Options) []string {
	keys := make([]string, 0, len(o))
	for _, e := range o {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestOptions_UnmarshalKeepsOrder(t *testing.T) {
	var o Options
	err := json.Unmarshal([]byte(`{"sizes":["S","M","L"],"color":"red","fit":[]}`), &o)
	require.NoError(t, err)

	assert.Equal(t, []string{"sizes", "color", "fit"}, keysOf(o))

	sizes, ok := o.Get("sizes")
	require.True(t, ok)
	list, isList := sizes.List()
	assert.True(t, isList)
	assert.Equal(t, []string{"S", "M", "L"}, list)

	color, _ := o.Get("color")
	s, isStr := color.Str()
	assert.True(t, isStr)
	assert.Equal(t, "red", s)

	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"sizes":["S","M","L"],"color":"red","fit":[]}`, string(b))
}

func TestOptions_UnmarshalRejectsOtherValueTypes(t *testing.T) {
	cases := []string{
		`{"size":1}`,
		`{"size":true}`,
		`{"size":{"a":"b"}}`,
		`{"size":["S",2]}`,
		`["S","M"]`,
		`"size"`,
		`{"size":"M","size":"L"}`,
	}
	for _, in := range cases {
		var o Options
		err := json.Unmarshal([]byte(in), &o)
		assert.ErrorIs(t, err, ErrInvalidOptions, in)
	}
}

func TestOptions_NullAndEmpty(t *testing.T) {
	var fromNull Options
	require.NoError(t, json.Unmarshal([]byte(`null`), &fromNull))
	assert.Nil(t, fromNull)

	var fromEmpty Options
	require.NoError(t, json.Unmarshal([]byte(`{}`), &fromEmpty))
	assert.NotNil(t, fromEmpty)
	assert.Len(t, fromEmpty, 0)

	assert.False(t, fromNull.Equal(fromEmpty))
	assert.True(t, fromEmpty.Equal(Options{}))
	assert.True(t, Options(nil).Equal(nil))

	b, err := json.Marshal(struct {
		O Options `json:"o"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"o":null}`, string(b))
}

func TestOptions_EqualIgnoresKeyOrder(t *testing.T) {
	a := Options{}.Set("size", StringOption("M")).Set("color", StringOption("blue"))
	b := Options{}.Set("color", StringOption("blue")).Set("size", StringOption("M"))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestOptions_EqualDistinguishesValues(t *testing.T) {
	base := Options{}.Set("size", StringOption("M"))

	assert.False(t, base.Equal(Options{}.Set("size", StringOption("L"))))
	assert.False(t, base.Equal(Options{}.Set("size", ListOption("M"))))
	assert.False(t, base.Equal(Options{}.Set("size", StringOption("M")).Set("color", StringOption("red"))))
	assert.False(t, base.Equal(Options{}.Set("fit", StringOption("M"))))

	l1 := Options{}.Set("tags", ListOption("a", "b"))
	l2 := Options{}.Set("tags", ListOption("b", "a"))
	assert.False(t, l1.Equal(l2))
}

func TestOptions_SetReplacesInPlace(t *testing.T) {
	o := Options{}.Set("a", StringOption("1")).Set("b", StringOption("2"))
	o = o.Set("a", StringOption("3"))

	assert.Equal(t, []string{"a", "b"}, keysOf(o))
	v, _ := o.Get("a")
	s, _ := v.Str()
	assert.Equal(t, "3", s)
}

func TestOptions_ValueAndScan(t *testing.T) {
	o := Options{}.Set("size", StringOption("M")).Set("colors", ListOption("red", "blue"))

	v, err := o.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"size":"M","colors":["red","blue"]}`, v)

	var scanned Options
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.True(t, o.Equal(scanned))
	assert.Equal(t, keysOf(o), keysOf(scanned))

	nilValue, err := Options(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, nilValue)

	scanned = Options{}
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)

	assert.Error(t, scanned.Scan(42))
}
