package main

import (
	"github.com/Manu343726/isaview/cmd"
)

func main() {
	cmd.Execute()
}
