package main

import "github.com/homeweave/weavectl/internal/interfaces/cli"

func main() {
	cli.Execute()
}
