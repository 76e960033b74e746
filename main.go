package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wyg1997/CommandAPI/internal/interfaces/cli"
	"github.com/wyg1997/CommandAPI/pkg/logger"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
