package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/floorplan/cmd/utils/internal/commands"
	"github.com/appetiteclub/floorplan/pkg"
	"github.com/joho/godotenv"
)

const (
	appName    = "floorplan-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args, flags := splitArgs(os.Args[2:])

	switch command {
	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	_ = godotenv.Load()

	config, err := apt.LoadConfig("UTILS", flags)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel := config.GetStringOrDef("log.level", "info")
	logger := apt.NewLogger(logLevel)

	ctx := context.Background()

	switch command {
	case "reset-db":
		if err := commands.ResetDB(ctx, config, logger); err != nil {
			log.Fatalf("❌ Database reset failed: %v", err)
		}
		logger.Info("✅ Database reset completed successfully")

	case "export-plan":
		id := requireArg(args, "export-plan <plan-id>")
		if err := commands.ExportPlan(ctx, config, logger, id, os.Stdout); err != nil {
			log.Fatalf("❌ Export failed: %v", err)
		}

	case "delete-plan":
		id := requireArg(args, "delete-plan <plan-id>")
		var publisher events.Publisher
		natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")
		if natsPublisher, err := pkg.NewNATSPublisher(natsURL); err != nil {
			logger.Info("NATS unavailable, deletion will not be announced", "error", err)
		} else {
			defer natsPublisher.Close()
			publisher = natsPublisher
		}
		if err := commands.DeletePlan(ctx, config, logger, id, publisher); err != nil {
			log.Fatalf("❌ Delete failed: %v", err)
		}
		logger.Info("✅ Plan deleted successfully")

	case "event-log":
		limit := 100
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				log.Fatalf("❌ Invalid limit %q", args[0])
			}
			limit = n
		}
		if err := commands.EventLog(ctx, config, logger, limit, os.Stdout); err != nil {
			log.Fatalf("❌ Event log failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// splitArgs separates leading positional arguments from the flags handed to
// the config loader.
func splitArgs(raw []string) ([]string, []string) {
	for i, arg := range raw {
		if strings.HasPrefix(arg, "-") {
			return raw[:i], raw[i:]
		}
	}
	return raw, nil
}

func requireArg(args []string, usage string) string {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Printf("Usage: %s %s\n", appName, usage)
		os.Exit(1)
	}
	return args[0]
}

func printUsage() {
	fmt.Printf(`%s - Floor plan utility commands

Usage:
  %s <command> [arguments] [options]

Commands:
  reset-db               Drop the floor plan database (USE WITH CAUTION)
  export-plan <id>       Print a saved plan as JSON
  delete-plan <id>       Remove a saved plan and notify running services
  event-log [limit]      Print unread floor plan events from the JetStream stream
  version                Print version information
  help                   Show this help message

Environment Variables:
  UTILS_DB_MONGO_URL     MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_DB_MONGO_NAME    Database name (default: floorplan)
  UTILS_NATS_URL         NATS URL (default: nats://localhost:4222)
  UTILS_LOG_LEVEL        Log level: debug, info, warn, error (default: info)

Examples:
  %s export-plan 550e8400-e29b-41d4-a716-446655440000 > plan.json
  %s event-log 20
  UTILS_DB_MONGO_URL=mongodb://localhost:27017 %s reset-db

`, appName, appName, appName, appName, appName)
}
