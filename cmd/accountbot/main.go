package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Livo-Africa/accountbot/config"
	"github.com/Livo-Africa/accountbot/internal/engine"
	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/internal/telegram"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

var (
	confPath = flag.String("conf", "",
		"Path to config.yaml. Defaults to ~/.accountbot/config.yaml when present.")
	console = flag.Bool("console", false, "Chat on stdin/stdout instead of Telegram.")
	debug   = flag.Bool("debug", false, "Log at debug level.")
)

func checkf(err error, format string, args ...any) {
	if err != nil {
		log.Printf(format, args...)
		log.Println()
		log.Fatalf("%+v", errors.WithStack(err))
	}
}

var errc = color.New(color.BgRed, color.FgWhite).PrintfFunc()

func oerr(msg string) {
	errc("\tERROR: " + msg + " ")
	fmt.Println()
	fmt.Println("Flags available:")
	flag.PrintDefaults()
	fmt.Println()
}

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	cpath := *confPath
	if cpath == "" {
		cpath = path.Join(config.DefaultDir(), "config.yaml")
	}
	conf, err := config.Load(cpath)
	checkf(err, "Unable to load config")

	store, err := tabular.NewStore(context.Background(), tabular.Options{
		Backend:     conf.Store.Backend,
		BoltPath:    conf.Store.Path,
		DynamoTable: conf.Store.DynamoTable,
		Region:      conf.Store.Region,
		Endpoint:    conf.Store.Endpoint,
	})
	checkf(err, "Unable to open %s store", conf.Store.Backend)
	defer store.Close()

	eng := engine.New(engine.Options{
		Store:    store,
		Logger:   logger,
		Currency: conf.Currency,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *console {
		runConsole(ctx, eng)
		return
	}

	if conf.Telegram.Token == "" {
		oerr("TELEGRAM_TOKEN is not set. Export it, put it in config.yaml, or run with -console")
		return
	}
	bot, err := telegram.New(conf.Telegram.Token, conf.Telegram.Username, eng, logger)
	checkf(err, "Unable to authenticate with Telegram")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("bot stopped")
	}
}

// runConsole chats on stdin/stdout, for local bookkeeping and demos.
// Documents (exports, charts) are saved to the working directory.
func runConsole(ctx context.Context, eng *engine.Engine) {
	user := os.Getenv("USER")
	if user == "" {
		user = "console"
	}
	prompt := color.New(color.BgGreen, color.FgBlack).PrintfFunc()
	fmt.Println("AccountBot console. Type 'help' for commands, Ctrl-D to quit.")
	s := bufio.NewScanner(os.Stdin)
	for {
		prompt(" %s ", user)
		fmt.Print(" ")
		if !s.Scan() {
			fmt.Println()
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		reply := eng.Dispatch(ctx, models.Message{
			Text:     s.Text(),
			ChatType: "console",
			UserID:   1,
			UserName: user,
		})
		fmt.Println(reply.Text)
		if reply.Document != nil {
			name := reply.Document.Filename
			if err := os.WriteFile(name, reply.Document.Payload, 0o644); err != nil {
				fmt.Printf("Unable to save %s: %v\n", name, err)
			} else {
				fmt.Printf("Saved %s\n", name)
			}
		}
	}
}
