package main

import (
	"context"
	"os"

	"github.com/Lixing-Zhang/orderboard/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
