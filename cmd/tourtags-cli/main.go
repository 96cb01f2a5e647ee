package main

import "tourtags/cmd/tourtags-cli/cmd"

func main() {
	cmd.Execute()
}
