package main

import (
	"fmt"
	"os"

	"github.com/mlowery/cotag/internal/cmd"
	"github.com/mlowery/cotag/internal/style"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		os.Exit(1)
	}
}
