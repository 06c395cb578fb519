package main

import (
	"github.com/sidkik/indexsync/cmd"
	"github.com/sidkik/indexsync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
