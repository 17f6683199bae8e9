package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/cli"
)

func main() {

	ctx := context.Background()
	cmd := cli.NewRootCommand(cli.OpenPostgres)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
