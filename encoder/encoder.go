// Package encoder is the single place that decides how values are serialised before they
// are written to the database.
package encoder

import (
	"io"
	"reflect"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maxArrayElements bounds decoded arrays. A miniblock may carry many storage logs, so the
// cbor default of 131072 is too low.
const maxArrayElements = 10 << 20

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

//nolint:gochecknoinits
func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{MaxArrayElements: maxArrayElements}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal returns encoding of param v
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes param v from []byte b
func Unmarshal(b []byte, v any) error {
	return decMode.Unmarshal(b, v)
}

// TestSymmetry checks if a type can be marshalled and unmarshalled with no issues
func TestSymmetry(t *testing.T, value any) {
	t.Helper()
	cborBytes, err := Marshal(value)
	require.NoError(t, err)

	unmarshaled := reflect.New(reflect.TypeOf(value))
	require.NoError(t, Unmarshal(cborBytes, unmarshaled.Interface()))
	assert.Equal(t, value, unmarshaled.Elem().Interface())
}

// NewEncoder returns a new encoder that writes to w
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a new decoder that reads from r
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
