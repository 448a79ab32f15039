package main

import "github.com/mouse-blink/ipynb2/cmd"

func main() {
	cmd.Execute()
}
