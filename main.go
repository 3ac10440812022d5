// Package main provides the readaloud CLI: it chunks long-form text and
// speaks it through an external synthesis engine with player-style
// controls.
package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/readaloud/internal/store"
	"github.com/dgnsrekt/readaloud/internal/wakelock"
	"github.com/dgnsrekt/readaloud/tts"
	"github.com/dgnsrekt/readaloud/tts/chunker"
	"github.com/dgnsrekt/readaloud/tts/engines"
	"github.com/dgnsrekt/readaloud/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""

	configFile string
	engineName string
	voiceName  string
	startRate  float64
	plain      bool
	headless   bool
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "readaloud [SOURCE]",
		Short: "Read markdown and plain text aloud",
		Long: "Read long-form text aloud through a local speech engine,\n" +
			"with pause, seek, rate and voice controls.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          execute,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: per-user config dir)")
	rootCmd.Flags().StringVar(&engineName, "engine", "", "synthesis engine (mock, espeak)")
	rootCmd.Flags().StringVar(&voiceName, "voice", "", "voice name to speak with")
	rootCmd.Flags().Float64Var(&startRate, "rate", 0, "initial speech rate multiplier")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "treat input as unstructured text")
	rootCmd.Flags().BoolVar(&headless, "no-ui", false, "play without the interactive view")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	cobra.OnInitialize(initConfig)

	if Version != "" {
		rootCmd.Version = Version
	}
}

func initConfig() {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	tts.SetDefaults()

	if configFile != "" {
		expanded, err := homedir.Expand(configFile)
		if err != nil {
			log.Error("could not expand config path", "path", configFile, "err", err)
			os.Exit(1)
		}
		viper.SetConfigFile(expanded)
	} else {
		scope := gap.NewScope(gap.User, "readaloud")
		dirs, err := scope.ConfigDirs()
		if err == nil {
			for _, dir := range dirs {
				viper.AddConfigPath(dir)
			}
		}
		viper.SetConfigName("readaloud")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			log.Error("could not read config", "err", err)
			os.Exit(1)
		}
	}
}

func execute(_ *cobra.Command, args []string) error {
	arg := "-"
	if len(args) > 0 {
		arg = args[0]
	}

	content, title, docKey, looksPlain, err := readSource(arg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if engineName != "" {
		cfg.Engine = engineName
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	kind := chunker.SourceMarkdown
	if plain || looksPlain {
		kind = chunker.SourcePlain
	}
	chunks := chunker.New(cfg.Pauses).Split(content, kind)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: %s", tts.ErrNoChunks, title)
	}
	log.Debug("content chunked", "chunks", len(chunks), "kind", kind)

	dbPath, err := store.DefaultPath()
	if err != nil {
		return err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	docStore := db.ForDocument(docKey)

	engine, err := engines.New(cfg)
	if err != nil {
		return err
	}

	events := make(chan tea.Msg, 16)
	ctrl := tts.NewController(engine, docStore, wakelock.New(), cfg, tts.ForwardHooks(events, docStore))
	defer ctrl.Close()

	ctrl.Load(chunks)
	if startRate > 0 {
		ctrl.SetRate(startRate)
	}
	if voiceName != "" {
		ctrl.SetVoice(voiceName)
	}

	if headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runHeadless(ctrl, events)
	}

	ctrl.Play()
	_, err = tea.NewProgram(ui.NewPlayer(ctrl, events, title), tea.WithAltScreen()).Run()
	return err
}

// runHeadless plays the content straight through without the interactive
// view.
func runHeadless(ctrl *tts.Controller, events chan tea.Msg) error {
	ctrl.Play()
	for msg := range events {
		switch msg := msg.(type) {
		case tts.ProgressMsg:
			log.Debug("progress", "position", msg.Position, "total", msg.Total, "chunk", msg.ChunkIndex)
		case tts.CompletedMsg:
			return nil
		}
	}
	return nil
}

// loadConfig prefers a config file when one was found, otherwise builds the
// configuration from the environment.
func loadConfig() (tts.Config, error) {
	if viper.ConfigFileUsed() != "" {
		return tts.LoadConfigFromViper()
	}
	return tts.LoadConfigFromEnv()
}

// readSource reads content from a file, an HTTP(S) URL, or stdin ("-").
// It returns the content, a display title, a stable document key for
// checkpointing, and whether the content looks unstructured.
func readSource(arg string) (content, title, docKey string, looksPlain bool, err error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", "stdin", false, nil
	}

	if u, uerr := url.ParseRequestURI(arg); uerr == nil && strings.Contains(arg, "://") {
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", "", "", false, fmt.Errorf("%s is not a supported protocol", u.Scheme)
		}
		resp, err := http.Get(u.String()) //nolint:noctx
		if err != nil {
			return "", "", "", false, fmt.Errorf("fetch url: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", "", "", false, fmt.Errorf("HTTP status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", "", "", false, fmt.Errorf("read url: %w", err)
		}
		return string(data), filepath.Base(u.Path), u.String(), false, nil
	}

	path, err := filepath.Abs(arg)
	if err != nil {
		return "", "", "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", "", false, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	isMarkdown := ext == ".md" || ext == ".markdown" || ext == ".mdown"
	return string(data), filepath.Base(path), path, !isMarkdown, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
