//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/ormasoftchile/subcheck/pkg/submission"
)

func main() {
	data, err := submission.RecordSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll("schemas", 0755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/record-v0.json", append(data, '\n'), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/record-v0.json")
}
