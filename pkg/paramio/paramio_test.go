package paramio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dualauth/authkv/pkg/accumulator"
	"github.com/dualauth/authkv/pkg/kvconfig"
)

func TestWriteReadRoundTrip(t *testing.T) {
	pp, _, err := accumulator.NewTestSetup(8)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, kvconfig.CurveTypeBLS12381, pp))

	curve, got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, kvconfig.CurveTypeBLS12381, curve)
	require.Equal(t, pp.Q, got.Q)
	require.Len(t, got.G1Powers, len(pp.G1Powers))
	require.Len(t, got.G2Powers, len(pp.G2Powers))
	for i := range pp.G1Powers {
		require.True(t, pp.G1Powers[i].Equal(got.G1Powers[i]), "G1 power %d mismatch", i)
	}
	for i := range pp.G2Powers {
		require.True(t, pp.G2Powers[i].Equal(got.G2Powers[i]), "G2 power %d mismatch", i)
	}
}

func TestReadRejectsUnsupportedVersion(t *testing.T) {
	pp, _, err := accumulator.NewTestSetup(2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, kvconfig.CurveTypeBLS12381, pp))

	raw := buf.Bytes()
	// Version is the last 4 bytes of the header, ahead of the point payload.
	headerLen := 1 + len(kvconfig.CurveTypeBLS12381) + 4 + 4
	require.LessOrEqual(t, headerLen, len(raw))
	raw[headerLen-1] = 0xFF

	_, _, err = Read(bytes.NewReader(raw))
	require.Error(t, err)
}

func TestReadRejectsTruncatedPoints(t *testing.T) {
	pp, _, err := accumulator.NewTestSetup(4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, kvconfig.CurveTypeBLS12381, pp))

	truncated := buf.Bytes()[:buf.Len()-10]
	_, _, err = Read(bytes.NewReader(truncated))
	require.Error(t, err)
}
