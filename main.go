package main

import "github.com/KaramelBytes/dataglance/cmd"

func main() {
	cmd.Execute()
}
