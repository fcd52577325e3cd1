package main

import "github.com/darmiel/sitegate/cmd"

func main() {
	cmd.Execute()
}
