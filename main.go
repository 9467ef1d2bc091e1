// Copyright © 2026 The pyclewn authors

package main

import "github.com/Mistobaan/pyclewn/cmd"

func main() {
	cmd.Execute()
}
