package main

import "github.com/mvp-joe/apidocs/internal/cli"

func main() {
	cli.Execute()
}
