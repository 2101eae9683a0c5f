package main

import "cfohelper/internal/cli"

func main() {
	cli.Execute()
}
