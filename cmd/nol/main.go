package main

import "github.com/battlesnakeio/nol/cmd/nol/commands"

func main() {
	commands.Execute()
}
