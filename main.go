package main

import "github.com/perankh/perankh/cmd"

func main() {
	cmd.Execute()
}
