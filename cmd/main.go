package main

import (
	"fmt"
	"os"

	"github.com/example-os/fatvol/cmd/fatctl"
)

func main() {
	if err := fatctl.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
