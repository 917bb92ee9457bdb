package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/trapline/trapline/pkg/classify"
	"github.com/trapline/trapline/pkg/config"
	"github.com/trapline/trapline/pkg/dialogue"
	"github.com/trapline/trapline/pkg/honeypot"
	"github.com/trapline/trapline/pkg/intel"
	"github.com/trapline/trapline/pkg/report"
	"github.com/trapline/trapline/pkg/session"
)

const Version = "0.1.0"

// detectRequest is the inbound message envelope. conversationHistory is
// advisory; the session store remains the authority on turn count.
type detectRequest struct {
	SessionID           string            `json:"sessionId"`
	Message             session.Message   `json:"message"`
	ConversationHistory []session.Message `json:"conversationHistory"`
	Metadata            map[string]any    `json:"metadata"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		port := "3000"
		if len(os.Args) > 2 {
			port = os.Args[2]
		}
		runHTTPServer(port)
	case "classify":
		if len(os.Args) < 3 {
			fmt.Println("Usage: trapline classify <text>")
			os.Exit(1)
		}
		runCLIClassify(strings.Join(os.Args[2:], " "))
	case "version":
		fmt.Printf("Trapline v%s\n", Version)
		fmt.Println("Conversational scam honeypot")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Trapline v%s - Conversational scam honeypot\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  trapline serve [port]     Start HTTP gateway (default: 3000)")
	fmt.Println("  trapline classify <text>  Classify a message from the command line")
	fmt.Println("  trapline version          Show version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  trapline serve 8080")
	fmt.Println("  trapline classify \"Your account will be blocked, verify now\"")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  TRAPLINE_API_KEY               Inbound x-api-key (required in production)")
	fmt.Println("  TRAPLINE_REPORT_URL            Report callback endpoint")
	fmt.Println("  TRAPLINE_ENGAGEMENT_THRESHOLD  Scammer turns before the report fires (default: 7)")
	fmt.Println("  TRAPLINE_TEMPLATES             YAML reply-template overrides")
	fmt.Println("  TRAPLINE_ENV                   Set to 'production' to enforce secrets")
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

func runHTTPServer(port string) {
	cfg := config.NewDefaultConfig()
	cfg.MustValidate()

	lib, err := dialogue.LoadLibrary(cfg.TemplatesPath)
	if err != nil {
		log.Printf("[STARTUP] Template overrides unusable (%v), using built-in templates", err)
		lib = dialogue.DefaultLibrary()
	}

	store := session.NewStore(
		session.WithMaxAge(cfg.SessionTTL),
		session.WithCleanupInterval(cfg.CleanupInterval),
	)
	defer store.Close()

	reporter := report.NewClient(cfg.ReportURL,
		report.WithMaxAttempts(cfg.ReportMaxAttempts),
		report.WithBackoff(cfg.ReportBackoff),
		report.WithConcurrency(cfg.ReportConcurrency),
		report.WithAPIKey(cfg.APIKey),
	)

	pipeline := honeypot.NewPipeline(cfg, store, dialogue.NewEngine(lib), reporter)

	if cfg.StartupProbe {
		go func() {
			if err := reporter.ProbeEndpoint(context.Background()); err != nil {
				log.Printf("[STARTUP] Report endpoint check failed: %v", err)
				return
			}
			log.Printf("[STARTUP] Report endpoint reachable: %s", cfg.ReportURL)
		}()
	}

	app := fiber.New(fiber.Config{
		AppName: "Trapline",
	})

	// API key middleware. Health stays open for load balancer probes; when no
	// key is configured (development) auth is disabled entirely.
	app.Use(func(c fiber.Ctx) error {
		if c.Path() == "/health" || cfg.APIKey == "" {
			return c.Next()
		}
		if c.Get("x-api-key") != cfg.APIKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid or missing API key",
			})
		}
		return c.Next()
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"version":  Version,
			"sessions": pipeline.StoreStats(),
			"reports":  reporter.Stats(),
		})
	})

	app.Post("/detect", func(c fiber.Ctx) error {
		requestID := uuid.NewString()

		var req detectRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid request body",
			})
		}
		if req.SessionID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
				"error":  "sessionId is required",
			})
		}
		if req.Message.Text == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
				"error":  "message.text is required",
			})
		}

		log.Printf("[DETECT] request=%s session=%s sender=%s", requestID, req.SessionID, req.Message.Sender)

		reply := pipeline.HandleTurn(req.SessionID, req.Message, req.ConversationHistory)

		return c.JSON(fiber.Map{
			"status": "success",
			"reply":  reply,
		})
	})

	app.Get("/session/:id", func(c fiber.Ctx) error {
		status, ok := pipeline.SessionStatus(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status": "error",
				"error":  "session not found",
			})
		}
		return c.JSON(status)
	})

	log.Printf("[STARTUP] Trapline v%s listening on :%s", Version, port)
	log.Printf("[STARTUP] Endpoints:")
	log.Printf("[STARTUP]   POST /detect       - Process one scammer message")
	log.Printf("[STARTUP]   GET  /session/:id  - Session status")
	log.Printf("[STARTUP]   GET  /health       - Health check")
	log.Printf("[STARTUP] Report callback: %s (threshold: %d turns)", cfg.ReportURL, cfg.EngagementThreshold)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}

// ============================================================================
// CLI Mode
// ============================================================================

func runCLIClassify(text string) {
	classifier := classify.New()
	extractor := intel.NewExtractor()

	out := struct {
		Category   string             `json:"category"`
		Confidence int                `json:"confidence"`
		Matched    []string           `json:"matched,omitempty"`
		Indicators intel.IndicatorSet `json:"indicators"`
	}{}

	res := classifier.Classify(text)
	out.Category = string(res.Category)
	out.Confidence = res.Confidence
	out.Matched = res.Matched
	out.Indicators = extractor.Extract(text)

	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))
}
