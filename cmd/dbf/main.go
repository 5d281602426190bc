package main

import "github.com/Ulysses-Xu/go-dbf/v2/cmd/dbf/cmd"

func main() {
	cmd.Execute()
}
