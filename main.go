package main

import "github.com/chriserin/specoutline/cmd"

func main() {
	cmd.Execute()
}
