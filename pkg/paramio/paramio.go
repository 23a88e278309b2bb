// Package paramio implements the accumulator's public parameter file
// format from spec.md §6: a fixed header naming the curve and power
// budget, followed by the G1 powers and then the G2 powers in the
// curve's canonical compressed point encoding. Verifiers depend on
// bit-exact compatibility, so the layout is versioned rather than
// self-describing: every field after the length-prefixed curve id is
// fixed-width.
//
// Grounded on the teacher's pkg/node wire encoding, which packs fields
// with encoding/binary.BigEndian ahead of variable-length payloads
// (node.go's dealerBytes/binary.BigEndian.PutUint32 framing).
package paramio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dualauth/authkv/pkg/accumulator"
	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/kvconfig"
)

// Version identifies the on-disk layout. Bump it, never reinterpret an
// existing value, whenever the header or point encoding changes.
const Version uint32 = 1

const (
	g1PointSize = 48
	g2PointSize = 96
)

// header is the prefix of a parameter file: curve id (a one-byte length
// followed by that many bytes), the power budget Q as a 4-byte big-endian
// integer, and the 4-byte big-endian format version.
type header struct {
	Curve   kvconfig.CurveType
	Q       int
	Version uint32
}

// Write serializes pp to w as (header, G1 powers, G2 powers), each point
// in canonical compressed encoding, ordered exactly as pp.G1Powers and
// pp.G2Powers store them.
func Write(w io.Writer, curve kvconfig.CurveType, pp *accumulator.PublicParams) error {
	if len(pp.G1Powers) != pp.Q+1 || len(pp.G2Powers) != pp.Q+1 {
		return fmt.Errorf("paramio: Write: public params have %d/%d powers, want %d", len(pp.G1Powers), len(pp.G2Powers), pp.Q+1)
	}
	if err := writeHeader(w, header{Curve: curve, Q: pp.Q, Version: Version}); err != nil {
		return fmt.Errorf("paramio: Write: %w", err)
	}
	for i, p := range pp.G1Powers {
		if _, err := w.Write(p.Marshal()); err != nil {
			return fmt.Errorf("paramio: Write: G1 power %d: %w", i, err)
		}
	}
	for i, p := range pp.G2Powers {
		if _, err := w.Write(p.Marshal()); err != nil {
			return fmt.Errorf("paramio: Write: G2 power %d: %w", i, err)
		}
	}
	return nil
}

// Read deserializes a parameter file previously produced by Write. It
// rejects a version it does not recognize rather than guessing at a
// layout.
func Read(r io.Reader) (kvconfig.CurveType, *accumulator.PublicParams, error) {
	h, err := readHeader(r)
	if err != nil {
		return "", nil, fmt.Errorf("paramio: Read: %w", err)
	}
	if h.Version != Version {
		return "", nil, fmt.Errorf("paramio: Read: unsupported version %d, want %d", h.Version, Version)
	}
	if h.Q < 0 {
		return "", nil, fmt.Errorf("paramio: Read: negative power budget %d", h.Q)
	}

	g1s := make([]bls.G1Point, h.Q+1)
	buf := make([]byte, g1PointSize)
	for i := range g1s {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", nil, fmt.Errorf("paramio: Read: G1 power %d: %w", i, err)
		}
		p, err := bls.G1PointFromCompressedBytes(buf)
		if err != nil {
			return "", nil, fmt.Errorf("paramio: Read: G1 power %d: %w", i, err)
		}
		g1s[i] = p
	}

	g2s := make([]bls.G2Point, h.Q+1)
	buf2 := make([]byte, g2PointSize)
	for i := range g2s {
		if _, err := io.ReadFull(r, buf2); err != nil {
			return "", nil, fmt.Errorf("paramio: Read: G2 power %d: %w", i, err)
		}
		p, err := bls.G2PointFromCompressedBytes(buf2)
		if err != nil {
			return "", nil, fmt.Errorf("paramio: Read: G2 power %d: %w", i, err)
		}
		g2s[i] = p
	}

	return h.Curve, &accumulator.PublicParams{Q: h.Q, G1Powers: g1s, G2Powers: g2s}, nil
}

func writeHeader(w io.Writer, h header) error {
	curveBytes := []byte(h.Curve)
	if len(curveBytes) > 255 {
		return fmt.Errorf("curve id %q too long", h.Curve)
	}
	if err := binary.Write(w, binary.BigEndian, uint8(len(curveBytes))); err != nil {
		return err
	}
	if _, err := w.Write(curveBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(h.Q)); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, h.Version)
}

func readHeader(r io.Reader) (header, error) {
	var curveLen uint8
	if err := binary.Read(r, binary.BigEndian, &curveLen); err != nil {
		return header{}, fmt.Errorf("read curve id length: %w", err)
	}
	curveBytes := make([]byte, curveLen)
	if _, err := io.ReadFull(r, curveBytes); err != nil {
		return header{}, fmt.Errorf("read curve id: %w", err)
	}
	var q uint32
	if err := binary.Read(r, binary.BigEndian, &q); err != nil {
		return header{}, fmt.Errorf("read power budget: %w", err)
	}
	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return header{}, fmt.Errorf("read version: %w", err)
	}
	return header{Curve: kvconfig.CurveType(curveBytes), Q: int(q), Version: version}, nil
}
