package main

import "github.com/ericfisherdev/accountvault/internal/adapter/driving/cli"

func main() {
	cli.Execute()
}
