// pixtoon-voice: Voice command service for the Pixtoon companion.
// Accepts audio uploads and answers with synthesized speech.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eviworld/pixtoon-voice/internal/config"
	"github.com/eviworld/pixtoon-voice/internal/log"
	"github.com/eviworld/pixtoon-voice/pkg/chat"
	"github.com/eviworld/pixtoon-voice/pkg/command"
	"github.com/eviworld/pixtoon-voice/pkg/stt"
	"github.com/eviworld/pixtoon-voice/pkg/tts"
	"github.com/eviworld/pixtoon-voice/pkg/web"
)

var (
	version    = "1.0.0"
	port       = flag.String("port", "", "HTTP server port (overrides config)")
	configPath = flag.String("config", "", "Path to YAML config file")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	fmt.Println()
	fmt.Println("🎙  Pixtoon Voice v" + version)
	fmt.Println("   Voice command service")
	fmt.Println()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	transcriber, err := stt.NewFireworks(
		stt.WithAPIKey(cfg.Keys.Fireworks),
		stt.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("failed to create transcriber", "error", err)
		os.Exit(1)
	}
	defer transcriber.Close()

	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Error("failed to create generator", "error", err)
		os.Exit(1)
	}
	defer generator.Close()

	synthesizer, err := buildSynthesizer(cfg)
	if err != nil {
		log.Error("failed to create synthesizer", "error", err)
		os.Exit(1)
	}
	defer synthesizer.Close()

	pipelineOpts := []command.Option{command.WithLogger(log.L())}
	if cfg.SongURL != "" {
		pipelineOpts = append(pipelineOpts, command.WithSongURL(cfg.SongURL))
	}
	pipeline := command.NewPipeline(transcriber, generator, synthesizer, pipelineOpts...)

	sessions := command.NewSessions(cfg.Session.MaxTurns)
	go pruneSessions(sessions)

	server := web.NewServer(cfg.Port, pipeline, sessions)

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		server.Shutdown()
	}()

	log.Info("starting service",
		"port", cfg.Port,
		"chat_provider", cfg.Chat.Provider,
		"tts_provider", cfg.TTS.Provider)

	if err := server.Start(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func buildGenerator(cfg *config.Config) (chat.Generator, error) {
	switch cfg.Chat.Provider {
	case config.ChatRelay:
		return chat.NewRelay(cfg.Chat.RelayURL, chat.WithLogger(log.L()))
	default:
		return chat.NewOpenAI(
			chat.WithAPIKey(cfg.Keys.OpenAI),
			chat.WithModel(cfg.Chat.Model),
			chat.WithLogger(log.L()),
		)
	}
}

func buildSynthesizer(cfg *config.Config) (tts.Synthesizer, error) {
	opts := []tts.Option{tts.WithLogger(log.L())}
	if cfg.TTS.Voice != "" {
		opts = append(opts, tts.WithVoice(cfg.TTS.Voice))
	}

	switch cfg.TTS.Provider {
	case config.TTSMiniMax:
		opts = append(opts,
			tts.WithAPIKey(cfg.Keys.MiniMax),
			tts.WithGroupID(cfg.Keys.MiniMaxGroup))
		return tts.NewMiniMax(opts...)
	case config.TTSFal:
		opts = append(opts,
			tts.WithAPIKey(cfg.Keys.Fal),
			tts.WithPolling(cfg.PollInterval(), cfg.TTS.PollAttempts))
		return tts.NewFal(opts...)
	default:
		opts = append(opts, tts.WithAPIKey(cfg.Keys.OpenAI))
		return tts.NewOpenAI(opts...)
	}
}

// pruneSessions evicts conversations idle for over an hour.
func pruneSessions(sessions *command.Sessions) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if removed := sessions.PruneIdle(time.Hour); removed > 0 {
			log.Debug("pruned idle sessions", "count", removed)
		}
	}
}
