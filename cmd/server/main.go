package main

import "github.com/nguyentranbao-ct/product-gateway/cmd"

func main() {
	cmd.Execute()
}
