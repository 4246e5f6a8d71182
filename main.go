package main

import (
	"github.com/cloudhut/kcli/commands"
)

func main() {
	commands.Execute()
}
