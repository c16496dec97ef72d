package main

import (
	"fmt"
	"os"

	"github.com/coding-with-rohit-914/fastbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
