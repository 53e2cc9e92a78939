package main

import (
	"fmt"
	"os"

	"github.com/seismowatch/faceauth/internal/phash"
)

// calc_phash.go - Utility to calculate the perceptual fingerprint of an image
//
// Usage:
//   go run scripts/calc_phash.go <image-file> [other-image-file]
//
// With a single image it prints the 16-hex-digit fingerprint. With two
// images it also prints the Hamming distance between them, which is
// what the login matcher compares against FACE_MATCH_THRESHOLD.

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/calc_phash.go <image-file> [other-image-file]")
		os.Exit(1)
	}

	first, err := fingerprintFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s  %s\n", first, os.Args[1])

	if len(os.Args) > 2 {
		second, err := fingerprintFile(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s  %s\n", second, os.Args[2])
		fmt.Printf("distance: %d\n", phash.Distance(first, second))
	}
}

func fingerprintFile(path string) (phash.Fingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return phash.Hash(data)
}
