package main

import (
	"fmt"
	"os"

	"github.com/0xcro3dile/podpanel-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "podpanel: %v\n", err)
		os.Exit(1)
	}
}
