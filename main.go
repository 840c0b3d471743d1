package main

import "github.com/soyuz43/svninfo-go/cmd"

func main() {
	cmd.Execute()
}
