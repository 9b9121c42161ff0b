package main

import (
	"github.com/mchmarny/benford/pkg/cli"
)

func main() {
	cli.Execute()
}
