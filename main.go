package main

import "github.com/danuarta/hr-portal/cmd"

func main() {
	cmd.Execute()
}
