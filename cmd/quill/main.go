package main

import (
	"os"

	"quill/cmd/internal/app"
)

func main() {
	os.Exit(app.Run())
}
