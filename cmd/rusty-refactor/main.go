package main

import "github.com/RustyRoad/rusty-refactor-sub001/internal/cli"

func main() {
	cli.Execute()
}
