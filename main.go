package main

import "github.com/tuanns/meetmind/commands"

func main() {
	commands.Execute()
}
