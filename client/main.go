package main

import "github.com/sdcio/fea-server/client/cmd"

func main() {
	cmd.Execute()
}
