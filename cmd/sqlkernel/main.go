package main

import (
	"fmt"
	"os"

	"github.com/nao1215/sqlkernel/cmd/sqlkernel/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
