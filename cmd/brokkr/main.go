package main

import (
	"github.com/brokkr-io/brokkr/cmd/brokkr/cmd"
)

func main() {
	cmd.Execute()
}
