package main

import "github.com/chukul/flexctl/cmd"

func main() {
	cmd.Execute()
}
