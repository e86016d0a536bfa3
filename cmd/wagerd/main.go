package main

import (
	"fmt"
	"os"

	"github.com/Chop-Kampfire/PythyBird/cmd/wagerd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
