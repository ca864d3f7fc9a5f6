package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDictionaryTypedGetters(t *testing.T) {
	d := NewDictionary()
	d.Set("Name", Name("Widget"))
	d.Set("Count", Int(5))
	d.Set("Ratio", Real(0.5))
	d.Set("Kids", Array{Int(1), Int(2)})
	d.Set("Resources", NewDictionary())
	d.Set("Title", Text("hello"))
	d.Set("Parent", Reference{Num: 3, Gen: 0})

	name, ok := d.GetName("Name")
	assert.True(t, ok)
	assert.Equal(t, Name("Widget"), name)

	n, ok := d.GetInt("Count")
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)

	f, ok := d.GetFloat("Ratio")
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)

	arr, ok := d.GetArray("Kids")
	assert.True(t, ok)
	assert.Len(t, arr, 2)

	_, ok = d.GetDict("Resources")
	assert.True(t, ok)

	s, ok := d.GetString("Title")
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), s.Value)

	ref, ok := d.GetReference("Parent")
	assert.True(t, ok)
	assert.Equal(t, Reference{Num: 3, Gen: 0}, ref)
}

func TestDictionaryTypedGettersWrongTypeReturnsFalse(t *testing.T) {
	d := NewDictionary()
	d.Set("Name", Name("Widget"))

	_, ok := d.GetInt("Name")
	assert.False(t, ok)

	_, ok = d.GetArray("Name")
	assert.False(t, ok)
}

func TestDictionaryTypedGettersMissingKeyReturnsFalse(t *testing.T) {
	d := NewDictionary()

	_, ok := d.GetName("Missing")
	assert.False(t, ok)
	_, ok = d.GetInt("Missing")
	assert.False(t, ok)
	_, ok = d.GetFloat("Missing")
	assert.False(t, ok)
	_, ok = d.GetArray("Missing")
	assert.False(t, ok)
	_, ok = d.GetDict("Missing")
	assert.False(t, ok)
	_, ok = d.GetString("Missing")
	assert.False(t, ok)
	_, ok = d.GetReference("Missing")
	assert.False(t, ok)
}

func TestNumberArraySkipsNonNumeric(t *testing.T) {
	arr := Array{Real(0), Real(0), Real(612), Name("not a number"), Real(792)}
	got := NumberArray(arr)
	assert.Equal(t, []float64{0, 0, 612, 792}, got)
}
