package main

import (
	"github.com/caretml/caret/internal/cli"
)

func main() {
	cli.Execute()
}
