package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetcal/internal/config"
	appLog "meetcal/internal/log"
	"meetcal/internal/notify"
	"meetcal/internal/status"
)

// flagConfig holds CLI flag values; non-empty values override the config file.
type flagConfig struct {
	configPath string
	envFile    string
	calendar   string
	output     string
	watch      bool
	today      bool
}

func main() {
	flags := parseFlags()
	os.Exit(run(flags))
}

func run(flags flagConfig) int {
	envFiles := []string{}
	if flags.envFile != "" {
		envFiles = append(envFiles, flags.envFile)
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		appLog.Error("failed to load env file", err, "env_file", flags.envFile)
		return 1
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return 1
	}
	if err := conf.ApplyEnv(); err != nil {
		appLog.Error("invalid environment override", err)
		return 1
	}

	// CLI flags override config file and environment.
	if flags.calendar != "" {
		conf.CalendarFile = flags.calendar
	}
	if flags.output != "" {
		conf.Output = flags.output
		conf.Normalize()
	}

	if err := conf.Validate(); err != nil {
		appLog.Error("invalid config", err, "config_path", flags.configPath)
		return 1
	}

	level, _ := appLog.ParseLevel(conf.LogLevel)
	appLog.SetLevel(level)

	loc, _ := conf.Location()
	notifier, _ := notify.New(conf.Notify, conf.NotifyIcon)

	opts := status.Options{
		CalendarPath: conf.CalendarPath(),
		Location:     loc,
		Settings:     conf.Settings(),
		Notifier:     notifier,
	}

	appLog.Debug("effective config",
		"calendar", opts.CalendarPath,
		"timezone", loc.String(),
		"look_ahead_minutes", conf.LookAheadMinutes,
		"popup_lead_seconds", conf.PopupLeadSeconds,
		"output", conf.Output,
		"notify", conf.Notify,
		"watch", flags.watch,
		"today", flags.today,
	)

	switch {
	case flags.today:
		if err := status.Today(opts, time.Now(), os.Stdout); err != nil {
			appLog.Error("agenda failed", err, "calendar", opts.CalendarPath)
			return 1
		}
	case flags.watch:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := status.Watch(ctx, opts, conf.WatchSchedule, os.Stdout); err != nil {
			appLog.Error("watch failed", err, "schedule", conf.WatchSchedule)
			return 1
		}
	default:
		if _, err := status.Run(context.Background(), opts, time.Now(), os.Stdout); err != nil {
			appLog.Error("status failed", err, "calendar", opts.CalendarPath)
			return 1
		}
	}

	return 0
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", config.DefaultPath(), "Path to config file")
	flag.StringVar(&cfg.envFile, "env-file", "", "dotenv file with MEETCAL_* overrides (default ./.env if present)")
	flag.StringVar(&cfg.calendar, "calendar", "", "ICS file to read (overrides config if set)")
	flag.StringVar(&cfg.output, "output", "", "Output mode: text or waybar (overrides config if set)")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and print a status line on every watch_schedule tick")
	flag.BoolVar(&cfg.today, "today", false, "List the timed events left today and exit")

	flag.Parse()

	return cfg
}
