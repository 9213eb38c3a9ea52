package main

import "github.com/ivylabs/mediatoken_backend/cmd"

func main() {
	cmd.Execute()
}
