package main

import (
	"os"

	"CoastCam/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
