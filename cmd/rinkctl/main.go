package main

import (
	"github.com/rinkhq/pickup-admin/internal/cli"
)

func main() {
	cli.Execute()
}
