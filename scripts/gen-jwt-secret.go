package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
)

// Generates a random HS256 signing secret for JWT_SECRET.

type output struct {
	Secret string `json:"secret"`
	Bytes  int    `json:"bytes"`
}

func main() {
	var (
		size   = flag.Int("bytes", 48, "Number of random bytes in the secret")
		format = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *size < 32 {
		fmt.Fprintln(os.Stderr, "refusing to generate a secret under 32 bytes")
		os.Exit(1)
	}

	raw := make([]byte, *size)
	if _, err := rand.Read(raw); err != nil {
		fmt.Fprintln(os.Stderr, "generate secret:", err)
		os.Exit(1)
	}

	out := output{
		Secret: base64.RawURLEncoding.EncodeToString(raw),
		Bytes:  *size,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Secret)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
