package main

import "discogsrec/internal/cli"

func main() {
	cli.Execute()
}
