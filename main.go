package main

import "github.com/mkarlsen/tt/cmd"

func main() {
	cmd.Execute()
}
