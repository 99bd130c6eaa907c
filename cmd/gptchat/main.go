package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/gptchat/pkg/engine"
)

type cli struct {
	Config  string `short:"c" help:"Path to the configuration file (default: gptchat.yaml when present)."`
	Env     string `default:".env" help:"Path to a .env file (ignored if missing)."`
	LogFile string `help:"Write logs to this file (overrides log_file)."`

	Chat   struct{} `cmd:"" help:"Start an interactive chat (default)."`
	Models struct{} `cmd:"" help:"List the available models."`
	Ask    struct {
		Model string   `short:"m" help:"Model key to use (default: default_model)."`
		Text  []string `arg:"" help:"Message to send."`
	} `cmd:"" help:"Send one message and print the reply."`
}

// cliConfig holds the process boundary so commands can be run from tests.
type cliConfig struct {
	Name        string
	Description string
	Exit        func(int)
	Stdout      io.Writer
	Stderr      io.Writer
}

func newCLIConfig() cliConfig {
	return cliConfig{
		Name:        "gptchat",
		Description: "Chat with OpenAI models from the terminal.",
		Exit:        os.Exit,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

func main() {
	os.Exit(runCLI(os.Args[1:], newCLIConfig()))
}

// runCLI parses args and runs the selected command, returning the exit code.
func runCLI(args []string, conf cliConfig) int {
	var c cli

	parser, err := kong.New(&c,
		kong.Name(conf.Name),
		kong.Description(conf.Description),
		kong.Exit(conf.Exit),
		kong.Writers(conf.Stdout, conf.Stderr),
	)
	if err != nil {
		fmt.Fprintf(conf.Stderr, "error: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(withDefaultCommand(args))
	if err != nil {
		fmt.Fprintf(conf.Stderr, "%s: error: %v\n", conf.Name, err)
		return 1
	}

	if err := loadDotEnv(c.Env); err != nil {
		fmt.Fprintf(conf.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch kctx.Command() {
	case "chat":
		err = runChat(ctx, c)
	case "models":
		err = runModels(c, conf.Stdout)
	case "ask <text>":
		return runAsk(ctx, c, conf)
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}

	if err != nil {
		fmt.Fprintf(conf.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

var commandNames = []string{"chat", "models", "ask"}

// withDefaultCommand selects "chat" when args name no command and don't ask
// for help.
func withDefaultCommand(args []string) []string {
	for _, a := range args {
		if slices.Contains(commandNames, a) || a == "-h" || a == "--help" {
			return args
		}
	}
	return append([]string{"chat"}, args...)
}

// newEngine loads configuration and assembles the engine. The returned close
// function releases the engine and the log file.
func newEngine(c cli, opts ...engine.Option) (*engine.Engine, func(), error) {
	cfg, err := engine.LoadConfig(resolveConfigPath(c.Config))
	if err != nil {
		return nil, nil, err
	}

	if c.LogFile != "" {
		cfg.LogFile = c.LogFile
	}

	log, logCloser, err := engine.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(cfg, append([]engine.Option{engine.WithLogger(log)}, opts...)...)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}

	return eng, func() {
		_ = eng.Close()
		_ = logCloser.Close()
	}, nil
}

func runChat(ctx context.Context, c cli) error {
	eng, closeEngine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer closeEngine()

	sess := eng.NewSession()
	defer eng.RemoveSession(sess.ID())

	if err := runSetupForm(eng.Models(), sess); err != nil {
		return err
	}

	p := tea.NewProgram(newAppModel(ctx, eng, sess), tea.WithContext(ctx))

	// Send the program reference so the model can start the bridge.
	go func() {
		p.Send(programReadyMsg{program: p})
	}()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func runModels(c cli, w io.Writer) error {
	eng, closeEngine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer closeEngine()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range eng.Models().Descriptors() {
		mark := " "
		if d.Key == eng.DefaultModel() {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", mark, d.Key, d.DisplayName, d.Description)
	}

	return tw.Flush()
}

// runAsk submits one message on a fresh session and prints the reply. A
// rejected submit prints the notice and exits with 2.
func runAsk(ctx context.Context, c cli, conf cliConfig) int {
	eng, closeEngine, err := newEngine(c)
	if err != nil {
		fmt.Fprintf(conf.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeEngine()

	sess := eng.NewSession()

	if c.Ask.Model != "" {
		if err := sess.SelectModel(c.Ask.Model); err != nil {
			fmt.Fprintf(conf.Stderr, "error: %v\n", err)
			return 1
		}
	}

	err = sess.Submit(ctx, strings.Join(c.Ask.Text, " "))

	var n *engine.Notice
	switch {
	case errors.As(err, &n):
		fmt.Fprintln(conf.Stderr, n.Text)
		return 2
	case err != nil:
		fmt.Fprintf(conf.Stderr, "error: %v\n", err)
		return 1
	}

	msgs := sess.Since(sess.Len() - 1)
	if len(msgs) == 1 {
		fmt.Fprintln(conf.Stdout, msgs[0].Content)
	}

	return 0
}
