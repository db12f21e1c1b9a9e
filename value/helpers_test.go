package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tera-toolbox/upkg/bulk"
)

func newByteData(t *testing.T, payload []byte) *bulk.Data {
	t.Helper()

	d := bulk.NewBytes()
	require.NoError(t, d.SetPayload(payload))

	return d
}
