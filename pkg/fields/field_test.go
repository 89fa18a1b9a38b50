package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldStates(t *testing.T) {
	p := Present(1811.0)
	assert.True(t, p.IsPresent())
	assert.False(t, p.IsAbsent())
	assert.False(t, p.IsFailed())

	a := Absent[float64]()
	assert.True(t, a.IsAbsent())
	assert.False(t, a.IsPresent())

	f := Failed[float64]("unparseable amount")
	assert.True(t, f.IsFailed())
	assert.Equal(t, "unparseable amount", f.Reason)
}

func TestFieldZeroValueIsAbsent(t *testing.T) {
	var f Field[int]
	assert.True(t, f.IsAbsent())
	assert.False(t, f.IsPresent())
}

func TestFieldGet(t *testing.T) {
	v, ok := Present(825.0).Get()
	assert.True(t, ok)
	assert.Equal(t, 825.0, v)

	_, ok = Absent[float64]().Get()
	assert.False(t, ok)

	_, ok = Failed[float64]("bad").Get()
	assert.False(t, ok)
}

func TestFieldJSONPresent(t *testing.T) {
	data, err := json.Marshal(Present(2500.0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"present","value":2500}`, string(data))

	var back Field[float64]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsPresent())
	assert.Equal(t, 2500.0, back.Value)
}

func TestFieldJSONAbsent(t *testing.T) {
	data, err := json.Marshal(Absent[float64]())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"absent"}`, string(data))

	var back Field[float64]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsAbsent())
}

func TestFieldJSONFailed(t *testing.T) {
	data, err := json.Marshal(Failed[float64]("amount out of range"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"failed","reason":"amount out of range"}`, string(data))

	var back Field[float64]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsFailed())
	assert.Equal(t, "amount out of range", back.Reason)
}

func TestFieldJSONPresentWithoutValue(t *testing.T) {
	var f Field[float64]
	err := json.Unmarshal([]byte(`{"status":"present"}`), &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field marked present but has no value")
}

func TestParseFailureError(t *testing.T) {
	p := ParseFailure{Category: "cuantias", Field: "cuantia_residencia", Reason: "no match"}
	assert.Equal(t, "cuantias.cuantia_residencia: no match", p.Error())
}
