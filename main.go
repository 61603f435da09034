/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/racereplay/cmd"

func main() {
	cmd.Execute()
}
