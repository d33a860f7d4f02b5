package main

import "github.com/ellavondegurechaff/healthquest/cmd"

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(version, commit)
}
