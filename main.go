package main

import (
	"fmt"
	"os"

	"github.com/codepathfinder/jumpthread/cmd"
)

// osExit is a seam for tests to observe the exit code main() would
// otherwise hand the OS.
var osExit = os.Exit

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}
