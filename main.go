package main

import "github.com/rtfdocs/rtfd/cmd"

func main() {
	cmd.Execute()
}
