package main

import "tempo/cmd/tempo/commands"

func main() {
	commands.Execute()
}
