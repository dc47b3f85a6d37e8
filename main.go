package main

import "github.com/Skotchmaster/online_shopping/cmd"

func main() {
	cmd.Execute()
}
