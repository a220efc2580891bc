package main

import (
	"github.com/monochain/monochain/cmd/commands"
)

func main() {
	commands.Execute()
}
