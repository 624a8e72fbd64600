package main

import (
	"fmt"
	"os"

	"github.com/heliochain/go-helios/cmd/helios/launcher"
)

func main() {
	if err := launcher.LaunchKeygen(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
