// Package main provides the roll binary: it rolls dice notation given on the
// command line and prints the result, or runs a Lua roll macro.
//
// Usage:
//
//	roll [flags] 3d6+2 2d4
//	roll -lua 'return engine.dice.roll("1d20+5").total'
//	roll -scripts content/macros -macro attack 5
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/diceroll/internal/config"
	"github.com/cory-johannsen/diceroll/internal/dice"
	"github.com/cory-johannsen/diceroll/internal/observability"
	"github.com/cory-johannsen/diceroll/internal/scripting"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("roll: %v", err)
	}
}

// run parses args, rolls, and writes the result to stdout. Logs go to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file; empty = defaults plus DICE_* environment")
	format := fs.String("format", "text", "output format for notation rolls: text or yaml")
	chunk := fs.String("lua", "", "Lua chunk to evaluate with engine.dice available")
	scriptDir := fs.String("scripts", "", "directory of Lua macro scripts")
	macro := fs.String("macro", "", "macro function to call; remaining arguments are passed as strings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "text" && *format != "yaml" {
		return fmt.Errorf("unknown format %q", *format)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	src, err := dice.NewSource(cfg.Dice.Source, cfg.Dice.Seed)
	if err != nil {
		return err
	}
	roller := dice.NewLoggedRoller(src, logger)

	logger.Debug("roller ready",
		zap.String("source", cfg.Dice.Source),
		zap.Int("instruction_limit", cfg.Scripting.InstructionLimit),
	)

	switch {
	case *chunk != "" || *macro != "":
		mgr := scripting.NewManager(roller, logger, cfg.Scripting.InstructionLimit)
		defer mgr.Close()
		ret, err := runScript(mgr, *chunk, *scriptDir, *macro, fs.Args())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, ret.String())
		return err
	case fs.NArg() == 0:
		return errors.New("no dice notation given")
	}

	agg := roller.RollAll(strings.Join(fs.Args(), " "))
	if *format == "yaml" {
		out, err := yaml.Marshal(agg)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = stdout.Write(out)
		return err
	}
	_, err = fmt.Fprintln(stdout, agg.String())
	return err
}

func runScript(mgr *scripting.Manager, chunk, scriptDir, macro string, args []string) (lua.LValue, error) {
	if chunk != "" {
		return mgr.Eval(chunk)
	}
	if scriptDir == "" {
		return lua.LNil, errors.New("-macro requires -scripts")
	}
	if err := mgr.LoadDir(scriptDir); err != nil {
		return lua.LNil, err
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LString(a)
	}
	return mgr.Call(macro, largs...)
}
