package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/layertiming/cmd/layertiming/commands"
)

var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("layertiming"),
		kong.Description("Control and inspect the shared transformer layer timing counter"),
		kong.Vars{"version": version},
	)

	global, err := cli.BuildGlobal()
	ctx.FatalIfErrorf(err)

	ctx.FatalIfErrorf(ctx.Run(global))
}
