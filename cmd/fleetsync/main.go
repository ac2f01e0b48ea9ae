package main

import "github.com/fleetsync/fleetsync/cmd/fleetsync/cmd"

func main() {
	cmd.Execute()
}
