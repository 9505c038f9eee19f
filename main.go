package main

import "github.com/khanhnv2901/hdrscan/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
