package main

import "github.com/tverro/ragchat/cmd"

func main() {
	cmd.Execute()
}
