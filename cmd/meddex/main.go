package main

import (
	"fmt"
	"os"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/meddex/internal/config"
	"github.com/hurttlocker/meddex/internal/mcp"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("meddex %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe(args []string) error {
	opts, err := parseResolveOptions(args)
	if err != nil {
		return err
	}

	resolved, err := config.ResolveConfig(opts)
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}

	srv := mcp.NewServer(mcp.ServerConfig{
		Version:      version,
		Sources:      resolved.SourceConfig(),
		PerTermLimit: resolved.EffectivePerTermLimit(5),
	})

	fmt.Fprintln(os.Stderr, "meddex MCP server listening on stdio")
	return mcpserver.ServeStdio(srv)
}

// runConfig prints the resolved configuration with provenance so users can
// see which file, env var, or flag supplied each value.
func runConfig(args []string) error {
	opts, err := parseResolveOptions(args)
	if err != nil {
		return err
	}

	resolved, err := config.ResolveConfig(opts)
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}

	fmt.Printf("config path: %s\n", resolved.ConfigPath)
	printValue("user agent", resolved.UserAgent)
	printValue("timeout", resolved.Timeout)
	printValue("max retries", resolved.MaxRetries)
	printValue("per-term limit", resolved.PerTermLimit)
	printValue("openFDA base", resolved.OpenFDABase)
	printValue("WHO base", resolved.WHOBase)
	printValue("PubMed base", resolved.PubMedBase)
	printValue("RxNorm base", resolved.RxNormBase)
	printValue("Scholar base", resolved.ScholarBase)
	printValue("Trials base", resolved.TrialsBase)
	return nil
}

func printValue(label string, v config.ResolvedValue) {
	if v.Value == "" {
		fmt.Printf("%-15s (default)\n", label+":")
		return
	}
	fmt.Printf("%-15s %s (%s", label+":", v.Value, v.Source)
	if v.From != "" {
		fmt.Printf(" %s", v.From)
	}
	fmt.Println(")")
}

func parseResolveOptions(args []string) (config.ResolveOptions, error) {
	opts := config.ResolveOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s requires a value", arg)
			}
			i++
			return args[i], nil
		}

		var err error
		switch {
		case arg == "--config":
			opts.ConfigPath, err = value()
		case arg == "--user-agent":
			opts.CLIUserAgent, err = value()
		case arg == "--timeout":
			opts.CLITimeout, err = value()
		case arg == "--limit":
			opts.CLILimit, err = value()
		case strings.HasPrefix(arg, "-"):
			return opts, fmt.Errorf("unknown flag: %s", arg)
		default:
			return opts, fmt.Errorf("unexpected argument: %s", arg)
		}
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func printUsage() {
	fmt.Println(`meddex — medical information MCP server

Usage:
  meddex serve [--config <path>] [--user-agent <ua>] [--timeout <dur>] [--limit <n>]
  meddex config [--config <path>]
  meddex version

Commands:
  serve    Start the MCP server on stdio
  config   Print the resolved configuration with provenance
  version  Print the version

Configuration is read from ~/.meddex/config.yaml, MEDDEX_* environment
variables, and CLI flags, in increasing order of precedence.`)
}
