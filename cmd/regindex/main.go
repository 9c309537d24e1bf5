package main

import "regindex/internal/cli"

func main() {
	cli.Execute()
}
