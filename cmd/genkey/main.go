package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

// Generates a random secret suitable for JWT_SECRET.
func main() {
	size := flag.Int("bytes", 48, "Number of random bytes in the secret")
	flag.Parse()

	buf := make([]byte, *size)
	if _, err := rand.Read(buf); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("JWT_SECRET=%s\n", base64.RawURLEncoding.EncodeToString(buf))
}
