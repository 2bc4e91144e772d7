package main

import (
	"os"

	"github.com/linkboard/linkboard/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
