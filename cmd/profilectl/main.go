package main

import "github.com/nfrund/profiledesk/cmd/profilectl/cmd"

func main() {
	cmd.Execute()
}
