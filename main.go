package main

import "github.com/KaramelBytes/jknstat/cmd"

func main() {
	cmd.Execute()
}
