package main

import "github.com/xvierd/kaizen/cmd"

func main() {
	cmd.Execute()
}
