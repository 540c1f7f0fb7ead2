package main

import "github.com/intizar/easyapply/cmd"

func main() {
	cmd.Execute()
}
