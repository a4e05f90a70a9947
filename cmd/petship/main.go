package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/petship/internal/cliconfig"
	"github.com/bft-labs/petship/pkg/log"
	"github.com/bft-labs/petship/pkg/petship"
)

const helpDescription = `
Send programs to a Commodore PET running the resident IEEE loader.

Operations:
  --load      transfer a file into memory (PRG header or --addr)
  --execute   call machine code at --addr
  --run       start the BASIC program in memory

The PET loader listens on device 30 unless told otherwise. Settings can come
from a config file, PETSHIP_* environment variables or flags, in that order of
increasing precedence.
`

var exampleUsage = strings.TrimSpace(`
  petship --port /dev/ttyUSB0 --load game.prg
  petship --port /dev/ttyUSB0 --load --addr 7000 routine.bin
  petship --port /dev/ttyUSB0 --execute --addr 7000
  petship --port /dev/ttyUSB0 -d 8 --run
  petship --transport dump --header-format implicit --load game.prg
  petship --port /dev/ttyUSB0 --load game.prg --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// options holds the per-invocation flags that are not part of Config.
type options struct {
	cfgPath string
	req     petship.Request
	watch   bool
}

// cli carries the state one invocation of the root command fills in.
type cli struct {
	cfg    cliconfig.Config
	opts   options
	logger *log.ZerologAdapter
	out    io.Writer // dump transport output
}

func newCLI() *cli {
	return &cli{
		cfg:    cliconfig.DefaultConfig(),
		logger: cliconfig.Logger(false),
		out:    os.Stdout,
	}
}

func main() {
	c := newCLI()
	root := c.command()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		c.logger.Error("petship", log.Err(err))
		os.Exit(1)
	}
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "petship [flags] [file]",
		Short:         "Send programs to a Commodore PET over IEEE-488",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Determine config path
			cfgFile := c.opts.cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
					return err
				}
			}

			// Apply environment variables (PETSHIP_*)
			// These override file config but are overridden by flags (checked via changed map)
			if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
				return err
			}

			c.logger = cliconfig.Logger(c.cfg.Verbose)

			if len(args) == 1 {
				if c.opts.req.File != "" && c.opts.req.File != args[0] {
					return errors.New("file given both as argument and with --file")
				}
				c.opts.req.File = args[0]
			}
			c.opts.req.Device = c.cfg.Device

			// Command errors come before transport settings.
			device, op, err := petship.Resolve(c.opts.req)
			if err != nil {
				return err
			}
			if _, isLoad := op.(petship.Load); c.opts.watch && !isLoad {
				return petship.CommandError("--watch can only be used with load command")
			}

			if err := c.cfg.Validate(); err != nil {
				return err
			}
			zl := c.logger.Logger()
			zl.Debug().Interface("config", c.cfg).Msg("configuration")

			return c.run(cmd.Context(), device, op)
		},
	}

	// Flags
	root.Flags().StringVar(&c.opts.cfgPath, "config", "", "path to config file (default: $HOME/.petship/config.toml)")

	root.Flags().StringVarP(&c.cfg.Device, "device", "d", c.cfg.Device, "target device id (0-30)")
	root.Flags().BoolVarP(&c.opts.req.Execute, "execute", "x", false, "execute machine code at --addr")
	root.Flags().BoolVarP(&c.opts.req.Run, "run", "r", false, "run the BASIC program in memory")
	root.Flags().BoolVarP(&c.opts.req.Load, "load", "l", false, "load a file into memory")
	root.Flags().StringVarP(&c.opts.req.Addr, "addr", "a", "", "target address, 1 to 4 hex digits")
	root.Flags().BoolVar(&c.opts.req.FromHeader, "from-header", false, "take the load address from the first two file bytes (default for --load without --addr)")
	root.Flags().StringVarP(&c.opts.req.File, "file", "f", "", "file to load (may also be given as argument)")
	root.Flags().BoolVar(&c.opts.watch, "watch", false, "re-send the file every time it changes (with --load)")
	root.MarkFlagsMutuallyExclusive("execute", "run", "load")
	root.MarkFlagsOneRequired("execute", "run", "load")
	root.MarkFlagsMutuallyExclusive("addr", "from-header")

	root.Flags().StringVar(&c.cfg.Transport, "transport", c.cfg.Transport, "bus transport: prologix or dump")
	root.Flags().StringVar(&c.cfg.Port, "port", c.cfg.Port, "serial port of the GPIB-USB controller")
	root.Flags().IntVar(&c.cfg.Baud, "baud", c.cfg.Baud, "serial baud rate")
	root.Flags().IntVar(&c.cfg.Channel, "channel", c.cfg.Channel, "secondary address the loader listens on")
	root.Flags().StringVar(&c.cfg.HeaderFormat, "header-format", c.cfg.HeaderFormat, "load header: explicit (5 bytes, with size) or implicit (3 bytes)")
	root.Flags().DurationVar(&c.cfg.ReadTimeout, "read-timeout", c.cfg.ReadTimeout, "controller reply timeout")
	root.Flags().DurationVar(&c.cfg.WriteTimeout, "write-timeout", c.cfg.WriteTimeout, "per-frame write timeout")
	root.Flags().DurationVar(&c.cfg.DebounceDelay, "debounce", c.cfg.DebounceDelay, "quiet period after a file change before re-sending")
	for _, name := range []string{"read-timeout", "write-timeout", "debounce"} {
		if err := root.Flags().MarkHidden(name); err != nil {
			c.logger.Info("failed to hide flag", log.String("flag", name), log.Err(err))
		}
	}
	root.Flags().BoolVarP(&c.cfg.Verbose, "verbose", "v", c.cfg.Verbose, "narrate every bus step")

	return root
}

// run sends op or, in watch mode, sends the load and keeps re-sending it
// until interrupted.
func (c *cli) run(ctx context.Context, device petship.DeviceAddress, op petship.Operation) error {
	libCfg, err := c.cfg.Library()
	if err != nil {
		return err
	}

	client, err := petship.New(libCfg, petship.WithLogger(c.logger), petship.WithDumpOutput(c.out))
	if err != nil {
		return fmt.Errorf("create petship: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			c.logger.Warn("close bus", log.Err(err))
		}
	}()

	if load, ok := op.(petship.Load); ok && c.opts.watch {
		c.logger.Info("watch mode, press Ctrl-C to stop")
		return client.Watch(ctx, device, load)
	}
	return client.Send(ctx, device, op)
}
