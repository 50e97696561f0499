package main

import "github.com/byehanchoi-cmyk/io-xl-web/cmd"

func main() {
	cmd.Execute()
}
