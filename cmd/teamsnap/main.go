package main

import (
	"os"

	"github.com/teamsnap-tools/teamsnap/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
