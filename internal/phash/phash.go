// Package phash computes perceptual face fingerprints and Hamming
// distances between them. Fingerprints are 64-bit DCT perceptual hashes
// rendered as 16-character lowercase hex strings. Two fingerprints are
// only comparable when produced by the same algorithm and resolution.
package phash

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math/bits"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/corona10/goimagehash"
	"golang.org/x/image/draw"
)

const (
	// BitWidth is the fingerprint size in bits. Frozen algorithm
	// parameter, not a per-record choice.
	BitWidth = 64

	// MaxDistance is the fail-closed distance returned for malformed
	// fingerprints and the distance reported against an empty store.
	MaxDistance = BitWidth

	// HexLen is the canonical fingerprint string length.
	HexLen = BitWidth / 4

	// sampleSize is the luminance grid the image is resampled to
	// before hashing.
	sampleSize = 256
)

var (
	ErrEmptyImage = errors.New("phash: empty image input")
	ErrDecode     = errors.New("phash: image could not be decoded")
)

// Fingerprint is the canonical hex rendering of a perceptual hash.
type Fingerprint string

// Hash converts raw encoded image bytes into a Fingerprint.
// It is deterministic for identical input. Callers must treat an error
// as "no usable fingerprint"; substituting a zero fingerprint into a
// comparison would give it a defined, exploitable distance.
func Hash(imageBytes []byte) (Fingerprint, error) {
	if len(imageBytes) == 0 {
		return "", ErrEmptyImage
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", ErrDecode
	}

	// Luminance-only, fixed-resolution rendering. The grayscale
	// resample normalizes color space and size before the DCT.
	gray := image.NewGray(image.Rect(0, 0, sampleSize, sampleSize))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	h, err := goimagehash.PerceptionHash(gray)
	if err != nil {
		return "", ErrDecode
	}

	return Fingerprint(fmt.Sprintf("%016x", h.GetHash())), nil
}

// Distance returns the Hamming distance between two fingerprints,
// 0 (identical) to BitWidth (maximally different). Malformed or empty
// fingerprints fail closed: the result is MaxDistance, never an error,
// so a broken stored hash can never be treated as a match.
func Distance(a, b Fingerprint) int {
	ua, okA := parse(a)
	ub, okB := parse(b)
	if !okA || !okB {
		return MaxDistance
	}
	return bits.OnesCount64(ua ^ ub)
}

// Valid reports whether f parses as a well-formed fingerprint.
func Valid(f Fingerprint) bool {
	_, ok := parse(f)
	return ok
}

func parse(f Fingerprint) (uint64, bool) {
	if len(f) != HexLen {
		return 0, false
	}
	v, err := strconv.ParseUint(string(f), 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
