package main

import "github.com/haseebmalik18/switchr/internal/cli"

func main() {
	cli.Execute()
}
