package main

import (
	"fmt"
	"os"

	"github.com/webperf-tools/vitaltop/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "vitaltop: %v\n", err)
		os.Exit(1)
	}
}
