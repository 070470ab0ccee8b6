package main

import (
	"os"

	"github.com/ndewijer/Broker-Document-Importer/cmd/importer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
