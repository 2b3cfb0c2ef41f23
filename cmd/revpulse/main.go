package main

import (
	"github.com/mchmarny/revpulse/pkg/cli"
)

func main() {
	cli.Execute()
}
