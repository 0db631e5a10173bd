// Package render stores point clouds in binary files and draws PNG previews
// and plots of them.
package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// pointSize is the encoded size of a point: three little endian float32.
const pointSize = 12

// WritePoints writes pts to w as consecutive little endian float32 x, y, z
// triples with no header. It returns the number of points written. Points
// that do not convert to finite float32 values are rejected.
func WritePoints(w io.Writer, pts []r3.Vec) (int, error) {
	bw := bufio.NewWriter(w)
	var b [pointSize]byte
	for i, p := range pts {
		v := ms3.Vec{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
		if badVec(v) {
			return i, fmt.Errorf("point %d %v has no finite float32 representation", i, p)
		}
		putVec(b[:], v)
		if _, err := bw.Write(b[:]); err != nil {
			return i, err
		}
	}
	return len(pts), bw.Flush()
}

// ReadPoints reads float32 triples written by WritePoints until EOF.
// A trailing partial record is ignored.
func ReadPoints(r io.Reader) ([]r3.Vec, error) {
	br := bufio.NewReader(r)
	var (
		b   [pointSize]byte
		pts []r3.Vec
	)
	for {
		_, err := io.ReadFull(br, b[:])
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return pts, nil
		}
		if err != nil {
			return pts, fmt.Errorf("%d points read: %w", len(pts), err)
		}
		v := getVec(b[:])
		pts = append(pts, r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)})
	}
}

// WritePointsFile writes pts to the file at path, creating parent
// directories as needed.
func WritePointsFile(path string, pts []r3.Vec) (n int, err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	fp, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
	}()
	return WritePoints(fp, pts)
}

// ReadPointsFile reads the points stored in the file at path.
func ReadPointsFile(path string) ([]r3.Vec, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadPoints(fp)
}

func putVec(b []byte, v ms3.Vec) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

func getVec(b []byte) ms3.Vec {
	_ = b[11] // early bounds check
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func badVec(v ms3.Vec) bool {
	return math32.IsNaN(v.X) || math32.IsInf(v.X, 0) ||
		math32.IsNaN(v.Y) || math32.IsInf(v.Y, 0) ||
		math32.IsNaN(v.Z) || math32.IsInf(v.Z, 0)
}
