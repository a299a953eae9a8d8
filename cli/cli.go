package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/acdform/cli/cmd"
	"github.com/ardnew/acdform/pkg"
)

// CLI is the top-level command-line interface for acdform.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	AcdPath string `env:"${acdPathEnv}" help:"Directories searched for definitions named without a directory." name:"acd-path" placeholder:"DIR[:DIR...]"`

	Fmt     cmd.Fmt     `cmd:"" help:"Format definitions"`
	Deps    cmd.Deps    `cmd:"" help:"List dependent attributes of definitions"`
	Lists   cmd.Lists   `cmd:"" help:"Decode list and select items of definitions"`
	Resolve cmd.Resolve `cmd:"" help:"Resolve attribute text against a form"`
	Preview cmd.Preview `cmd:"" help:"Preview a form interactively"`
	Watch   cmd.Watch   `cmd:"" help:"Watch directories and summarize changed definitions"`
	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Version cmd.Version `cmd:"" help:"Print version"`
}

// Run executes the acdform CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"acdPathEnv":         pkg.EnvPath,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position, so that the configuration loader logs with them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(loadYAML(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.AcdPath))

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
