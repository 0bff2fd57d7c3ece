package main

import "github.com/nsxzhou1114/blog-article-api/cmd"

func main() {
	cmd.Execute()
}
