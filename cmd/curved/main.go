package main

import "github.com/curvemint/curved/internal/cli"

func main() {
	cli.Execute()
}
