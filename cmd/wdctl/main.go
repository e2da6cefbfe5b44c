package main

import "github.com/mkarahan/worlddominion/internal/cli"

func main() {
	cli.Execute()
}
