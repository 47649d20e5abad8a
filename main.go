package main

import (
	"os"

	"github.com/coffeehub/smartqueue/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
