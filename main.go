package main

import "github.com/VoxDroid/routeml/cmd"

func main() {
	cmd.Execute()
}
