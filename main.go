package main

import (
	"github.com/apexwis/AudioSplitterFaaS/cmd"
)

func main() {
	cmd.Execute()
}
