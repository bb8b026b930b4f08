package main

import (
	"github.com/mchmarny/jobfraud/pkg/cli"
)

func main() {
	cli.Execute()
}
