package main

import (
	"github.com/gantrydev/gantry/cli"
	"github.com/gantrydev/gantry/logger"
)

func main() {
	logger.InitLogger()
	cli.Execute()
}
