package main

import "github.com/gardenlog/apiserver/cmd"

func main() {
	cmd.Execute()
}
