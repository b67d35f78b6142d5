// Command logseq-mcp serves the Logseq MCP tools over stdio or
// WebSocket, and doubles as a command-line client for the same
// operations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	logseq "github.com/logseq/logseq.go"
	"github.com/logseq/logseq.go/mcp"
	"github.com/logseq/logseq.go/pkg/config"
	"github.com/logseq/logseq.go/pkg/format"
	"github.com/logseq/logseq.go/pkg/logger"
)

const usage = `Usage: logseq-mcp [flags] <command> [args]

Commands:
  serve                        Run the MCP server on stdio (default)
  serve -listen <addr>         Run the MCP server over WebSocket
  pages list|get|create|delete|rename
  journals create|list
  blocks get|insert|update|delete|move|batch-insert|page-blocks|current-page-blocks|current-block
  queries simple|advanced|tasks|blocks-with-prop
  graph info|user-configs|git-status|git-commit|check-git
  health                       Check API reachability

Flags:
`

type app struct {
	settings config.Settings
	client   *logseq.Client
	log      zerolog.Logger
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	apiURL := flag.String("url", "", "Logseq API base URL (overrides config)")
	apiToken := flag.String("token", "", "Logseq API token (overrides config)")
	logPath := flag.String("log-file", "", "Log to this file instead of stderr")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *apiURL != "" {
		settings.APIURL = strings.TrimRight(*apiURL, "/")
	}
	if *apiToken != "" {
		settings.APIToken = *apiToken
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fatal(fmt.Errorf("invalid log level %q: %w", *logLevel, err))
	}
	log, err := logger.New().ToPath(*logPath).WithLevel(level).Make()
	if err != nil {
		fatal(err)
	}
	defer log.Close()

	client := logseq.New(settings, logseq.WithLogger(log.Logger))
	defer client.Close()

	a := &app{settings: settings, client: client, log: log.Logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	command := "serve"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	if err := a.run(ctx, command, args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, format.Error(err.Error()))
	os.Exit(1)
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "serve":
		return a.serve(ctx, args)
	case "pages":
		return a.pages(ctx, args)
	case "journals":
		return a.journals(ctx, args)
	case "blocks":
		return a.blocks(ctx, args)
	case "queries":
		return a.queries(ctx, args)
	case "graph":
		return a.graph(ctx, args)
	case "health":
		if !a.client.HealthCheck(ctx) {
			return fmt.Errorf("Logseq API at %s is not reachable", a.settings.APIURL)
		}
		fmt.Println(format.Success("Logseq API is reachable"))
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) newServer() *mcp.Server {
	tools := mcp.NewToolHandler(a.client,
		a.settings.EnableAdvancedQueries,
		a.settings.EnableGitOperations)
	prompts := mcp.NewPromptHandler(a.client)
	return mcp.NewServer(a.settings.ServerName, a.settings.ServerVersion, tools, prompts, a.log)
}

func (a *app) serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("listen", "", "Serve over WebSocket on this address instead of stdio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server := a.newServer()
	if *listen != "" {
		return server.ServeWebSocket(ctx, *listen)
	}
	a.log.Info().Str("server", a.settings.ServerName).Msg("serving on stdio")
	return server.ServeStdio(ctx, os.Stdin, os.Stdout)
}

func (a *app) pages(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("pages requires a subcommand: list, get, create, delete, rename")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		pages, err := a.client.AllPages(ctx, logseq.GetAllPagesInput{})
		if err != nil {
			return err
		}
		fmt.Println(format.Pages(pages))
		return nil

	case "get":
		fs := flag.NewFlagSet("pages get", flag.ExitOnError)
		children := fs.Bool("children", false, "Include child blocks")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("pages get requires a page name")
		}
		page, err := a.client.GetPage(ctx, logseq.GetPageInput{
			PageName:        fs.Arg(0),
			IncludeChildren: *children,
		})
		if err != nil {
			return err
		}
		if page == nil {
			return fmt.Errorf("page not found: %s", fs.Arg(0))
		}
		return printJSON(page)

	case "create":
		fs := flag.NewFlagSet("pages create", flag.ExitOnError)
		journal := fs.Bool("journal", false, "Create as journal page")
		pageFormat := fs.String("format", "", "Page format: markdown or org")
		firstBlock := fs.Bool("first-block", true, "Create an initial empty block")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("pages create requires a page name")
		}
		page, err := a.client.CreatePage(ctx, logseq.CreatePageInput{
			PageName:         fs.Arg(0),
			Journal:          *journal,
			Format:           *pageFormat,
			CreateFirstBlock: firstBlock,
		})
		if err != nil {
			return err
		}
		if page == nil {
			fmt.Println(format.Success("page created"))
			return nil
		}
		return printJSON(page)

	case "delete":
		if len(rest) < 1 {
			return fmt.Errorf("pages delete requires a page name")
		}
		if err := a.client.DeletePage(ctx, logseq.DeletePageInput{PageName: rest[0]}); err != nil {
			return err
		}
		fmt.Println(format.Success("page deleted"))
		return nil

	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("pages rename requires <old-name> <new-name>")
		}
		if err := a.client.RenamePage(ctx, logseq.RenamePageInput{
			OldName: rest[0],
			NewName: rest[1],
		}); err != nil {
			return err
		}
		fmt.Println(format.Success("page renamed"))
		return nil

	default:
		return fmt.Errorf("unknown pages subcommand: %s", sub)
	}
}

// journals are regular pages created with the journal flag set; the
// name is the journal date, e.g. "2026-02-07".
func (a *app) journals(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("journals requires a subcommand: create, list")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "create":
		fs := flag.NewFlagSet("journals create", flag.ExitOnError)
		properties := fs.String("properties", "", "Page properties as JSON")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("journals create requires a date, e.g. 2026-02-07")
		}
		props, err := parseJSONObject(*properties)
		if err != nil {
			return err
		}
		page, err := a.client.CreatePage(ctx, logseq.CreatePageInput{
			PageName:   fs.Arg(0),
			Properties: props,
			Journal:    true,
			Format:     logseq.PageFormatMarkdown,
		})
		if err != nil {
			return err
		}
		if page == nil {
			fmt.Println(format.Success("journal page created"))
			return nil
		}
		return printJSON(page)

	case "list":
		fs := flag.NewFlagSet("journals list", flag.ExitOnError)
		repo := fs.String("repo", "", "Repository name (uses current graph if omitted)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		pages, err := a.client.AllPages(ctx, logseq.GetAllPagesInput{Repo: *repo})
		if err != nil {
			return err
		}
		fmt.Println(format.Pages(pages))
		return nil

	default:
		return fmt.Errorf("unknown journals subcommand: %s", sub)
	}
}

func (a *app) blocks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("blocks requires a subcommand: get, insert, update, delete, move, batch-insert, page-blocks, current-page-blocks, current-block")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "get":
		if len(rest) < 1 {
			return fmt.Errorf("blocks get requires a UUID")
		}
		block, err := a.client.GetBlock(ctx, logseq.GetBlockInput{UUID: rest[0]})
		if err != nil {
			return err
		}
		if block == nil {
			return fmt.Errorf("block not found: %s", rest[0])
		}
		return printJSON(block)

	case "insert":
		fs := flag.NewFlagSet("blocks insert", flag.ExitOnError)
		parent := fs.String("parent", "", "Parent block UUID or page name")
		pageBlock := fs.Bool("page-block", false, "Insert as page-level block")
		before := fs.Bool("before", false, "Insert before parent instead of after")
		customUUID := fs.String("custom-uuid", "", "Custom UUID for the block")
		properties := fs.String("properties", "", "Block properties as JSON")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("blocks insert requires content")
		}
		props, err := parseJSONObject(*properties)
		if err != nil {
			return err
		}
		block, err := a.client.InsertBlock(ctx, logseq.InsertBlockInput{
			ParentBlock: *parent,
			Content:     strings.Join(fs.Args(), " "),
			IsPageBlock: *pageBlock,
			Before:      *before,
			CustomUUID:  *customUUID,
			Properties:  props,
		})
		if err != nil {
			return err
		}
		if block == nil {
			fmt.Println(format.Success("block inserted"))
			return nil
		}
		return printJSON(block)

	case "update":
		if len(rest) < 2 {
			return fmt.Errorf("blocks update requires <uuid> <content>")
		}
		block, err := a.client.UpdateBlock(ctx, logseq.UpdateBlockInput{
			UUID:    rest[0],
			Content: strings.Join(rest[1:], " "),
		})
		if err != nil {
			return err
		}
		if block == nil {
			fmt.Println(format.Success("block updated"))
			return nil
		}
		return printJSON(block)

	case "delete":
		if len(rest) < 1 {
			return fmt.Errorf("blocks delete requires a UUID")
		}
		if err := a.client.DeleteBlock(ctx, logseq.DeleteBlockInput{UUID: rest[0]}); err != nil {
			return err
		}
		fmt.Println(format.Success("block deleted"))
		return nil

	case "move":
		fs := flag.NewFlagSet("blocks move", flag.ExitOnError)
		asChild := fs.Bool("as-child", false, "Move as child of target")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() < 2 {
			return fmt.Errorf("blocks move requires <uuid> <target-uuid>")
		}
		if _, err := a.client.MoveBlock(ctx, logseq.MoveBlockInput{
			UUID:       fs.Arg(0),
			TargetUUID: fs.Arg(1),
			AsChild:    *asChild,
		}); err != nil {
			return err
		}
		fmt.Println(format.Success("block moved"))
		return nil

	case "batch-insert":
		if len(rest) < 2 {
			return fmt.Errorf("blocks batch-insert requires <parent> <blocks-json>")
		}
		var batch []map[string]any
		if err := json.Unmarshal([]byte(rest[1]), &batch); err != nil {
			return fmt.Errorf("blocks must be a JSON array of objects: %w", err)
		}
		blocks, err := a.client.InsertBatch(ctx, logseq.BatchBlockInput{
			Parent: rest[0],
			Blocks: batch,
		})
		if err != nil {
			return err
		}
		if blocks == nil {
			fmt.Println(format.Success("batch insert completed"))
			return nil
		}
		fmt.Println(format.Success(fmt.Sprintf("inserted %d blocks", len(blocks))))
		return nil

	case "page-blocks":
		if len(rest) < 1 {
			return fmt.Errorf("blocks page-blocks requires a page name")
		}
		blocks, err := a.client.PageBlocksTree(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Println(format.Blocks(blocks))
		return nil

	case "current-page-blocks":
		blocks, err := a.client.CurrentPageBlocksTree(ctx)
		if err != nil {
			return err
		}
		fmt.Println(format.Blocks(blocks))
		return nil

	case "current-block":
		block, err := a.client.CurrentBlock(ctx)
		if err != nil {
			return err
		}
		if block == nil {
			fmt.Println("No block selected")
			return nil
		}
		return printJSON(block)

	default:
		return fmt.Errorf("unknown blocks subcommand: %s", sub)
	}
}

func (a *app) queries(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("queries requires a subcommand: simple, advanced, tasks, blocks-with-prop")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "simple":
		if len(rest) < 1 {
			return fmt.Errorf("queries simple requires a query string")
		}
		results, err := a.client.SimpleQuery(ctx, logseq.SimpleQueryInput{Query: rest[0]})
		if err != nil {
			return err
		}
		fmt.Println(format.QueryResults(results))
		return nil

	case "advanced":
		if !a.settings.EnableAdvancedQueries {
			return fmt.Errorf("advanced queries are disabled")
		}
		if len(rest) < 1 {
			return fmt.Errorf("queries advanced requires a Datascript query")
		}
		inputs := make([]any, 0, len(rest)-1)
		for _, raw := range rest[1:] {
			inputs = append(inputs, parseQueryInput(raw))
		}
		results, err := a.client.AdvancedQuery(ctx, logseq.AdvancedQueryInput{
			Query:  rest[0],
			Inputs: inputs,
		})
		if err != nil {
			return err
		}
		fmt.Println(format.QueryResults(results))
		return nil

	case "tasks":
		fs := flag.NewFlagSet("queries tasks", flag.ExitOnError)
		marker := fs.String("marker", "", "Filter by marker (TODO, DOING, DONE, ...)")
		priority := fs.String("priority", "", "Filter by priority (A, B, C)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		tasks, err := a.client.GetTasks(ctx, logseq.GetTasksInput{
			Marker:   *marker,
			Priority: *priority,
		})
		if err != nil {
			return err
		}
		rows := make([]any, 0, len(tasks))
		for _, task := range tasks {
			rows = append(rows, task)
		}
		fmt.Println(format.QueryResults(rows))
		return nil

	case "blocks-with-prop":
		if len(rest) < 1 {
			return fmt.Errorf("queries blocks-with-prop requires <name> [value]")
		}
		value := ""
		if len(rest) > 1 {
			value = rest[1]
		}
		results, err := a.client.BlocksWithProperty(ctx, rest[0], value)
		if err != nil {
			return err
		}
		fmt.Println(format.QueryResults(results))
		return nil

	default:
		return fmt.Errorf("unknown queries subcommand: %s", sub)
	}
}

func (a *app) graph(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("graph requires a subcommand: info, user-configs, git-status, git-commit, check-git")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "info":
		graph, err := a.client.CurrentGraph(ctx)
		if err != nil {
			return err
		}
		fmt.Println(format.Graph(*graph))
		return nil

	case "user-configs":
		configs, err := a.client.UserConfigs(ctx)
		if err != nil {
			return err
		}
		return printJSON(configs)

	case "git-status":
		if !a.settings.EnableGitOperations {
			return fmt.Errorf("git operations are disabled")
		}
		status, err := a.client.GitStatus(ctx)
		if err != nil {
			return err
		}
		if text, ok := status.(string); ok {
			fmt.Println(format.GitStatus(text))
			return nil
		}
		return printJSON(status)

	case "git-commit":
		if !a.settings.EnableGitOperations {
			return fmt.Errorf("git operations are disabled")
		}
		if len(rest) < 1 {
			return fmt.Errorf("graph git-commit requires a message")
		}
		if err := a.client.GitCommit(ctx, logseq.GitCommitInput{
			Message: strings.Join(rest, " "),
		}); err != nil {
			return err
		}
		fmt.Println(format.Success("git commit created"))
		return nil

	case "check-git":
		support := a.client.CheckGitSupport(ctx)
		return printJSON(support)

	default:
		return fmt.Errorf("unknown graph subcommand: %s", sub)
	}
}

// parseQueryInput keeps numbers and booleans typed so Datascript
// input bindings line up.
func parseQueryInput(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func parseJSONObject(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("properties must be a JSON object: %w", err)
	}
	return m, nil
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
