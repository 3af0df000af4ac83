package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"kaede/pkg/agent"
	"kaede/pkg/cache"
	"kaede/pkg/character"
	"kaede/pkg/config"
	"kaede/pkg/discord"
	"kaede/pkg/embedding"
	"kaede/pkg/emotion"
	"kaede/pkg/llm"
	"kaede/pkg/memory"
	"kaede/pkg/rag"
	"kaede/pkg/surreal"
)

func main() {
	modelFlag := flag.String("model", "", "override the chat model")
	temperatureFlag := flag.Float64("temperature", -1, "override the sampling temperature")
	sheetFlag := flag.String("character-sheet", "", "override the character sheet path")
	flag.Parse()

	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if *modelFlag != "" {
		cfg.ModelSettings.Model = *modelFlag
	}
	if *temperatureFlag >= 0 {
		cfg.ModelSettings.Temperature = *temperatureFlag
	}
	if *sheetFlag != "" {
		cfg.Character.SheetPath = *sheetFlag
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("Missing required environment variable: OPENAI_API_KEY")
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")

	loc, err := time.LoadLocation(cfg.Character.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Character.Timezone, err)
	}
	lang := emotion.LangEN
	if cfg.Character.Language == "ja" {
		lang = emotion.LangJA
	}

	// Character sheet
	sheet, err := character.Load(cfg.Character.SheetPath)
	if err != nil {
		log.Fatalf("Failed to load character sheet: %v", err)
	}
	sheetText, err := sheet.Text()
	if err != nil {
		log.Fatalf("Failed to render character sheet: %v", err)
	}
	persona := sheet.Summary()
	if persona == "" {
		persona = sheetText
	}

	// Core state
	emotions := emotion.NewManager(lang, loc, nil)
	memories := memory.NewManager(cfg.MemorySettings.MaxHistoryLength, loc, nil)

	// Optional Redis persistence for the chat history
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err := cache.NewRedisCache(redisURL, "kaede")
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		memories.SetPersistence(memory.NewPersistence(redisCache, "default"))
		memories.Restore()
		log.Println("Redis history persistence enabled")
	}

	// LLM client
	llmClient := llm.NewClient(apiKey, baseURL, cfg.ModelSettings.Model,
		cfg.ModelSettings.Temperature, cfg.ModelSettings.TopP)

	// Retrieval over the character sheet
	embeddingClient := embedding.NewCachedClient(
		embedding.NewClient(apiKey, baseURL, cfg.RAGSettings.EmbeddingModel), 500)

	var store rag.Store
	if surrealHost := os.Getenv("SURREAL_DB_HOST"); surrealHost != "" {
		if !strings.HasPrefix(surrealHost, "ws://") && !strings.HasPrefix(surrealHost, "wss://") {
			surrealHost = "wss://" + surrealHost + "/rpc"
		}
		surrealNS := envOr("SURREAL_DB_NAMESPACE", "kaede")
		surrealDB := envOr("SURREAL_DB_DATABASE", "character")

		log.Printf("Connecting to SurrealDB at %s (NS: %s, DB: %s)", surrealHost, surrealNS, surrealDB)
		surrealClient, err := surreal.NewClient(surrealHost,
			os.Getenv("SURREAL_DB_USER"), os.Getenv("SURREAL_DB_PASS"), surrealNS, surrealDB)
		if err != nil {
			log.Fatalf("Failed to connect to SurrealDB: %v", err)
		}
		defer surrealClient.Close()

		surrealStore, err := rag.NewSurrealStore(surrealClient)
		if err != nil {
			log.Fatalf("Failed to create Surreal store: %v", err)
		}
		if err := surrealStore.Reset(); err != nil {
			log.Fatalf("Failed to reset Surreal store: %v", err)
		}
		store = surrealStore
	} else {
		store = rag.NewMemoryStore()
	}

	splitter := rag.NewSplitter(cfg.RAGSettings.ChunkSize, cfg.RAGSettings.ChunkOverlap)
	ragService := rag.NewCharacterService(splitter, embeddingClient, store, cfg.RAGSettings.TopK)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ragService.Initialize(ctx, sheetText); err != nil {
		log.Fatalf("Failed to index character sheet: %v", err)
	}

	// Agent
	a, err := agent.New(agent.Options{
		Name:      sheet.Name(),
		Persona:   persona,
		LLM:       llmClient,
		Extractor: agent.NewLLMExtractor(llmClient),
		Emotions:  emotions,
		Memory:    memories,
		Retriever: ragService,
	})
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	a.StartDecayLoop(ctx,
		time.Duration(cfg.EmotionSettings.DecayIntervalSeconds)*time.Second,
		cfg.EmotionSettings.DecayUnitSeconds)

	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		runDiscord(a, token)
		return
	}
	runREPL(ctx, a, sheet.Name())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runDiscord(a *agent.Agent, token string) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	if err := dg.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}
	defer dg.Close()

	handler := discord.NewHandler(a, dg.State.User.ID)
	dg.AddHandler(handler.MessageCreate)

	log.Println("Connected to Discord. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

func runREPL(ctx context.Context, a *agent.Agent, name string) {
	fmt.Printf("Talking to %s. Type 'state' to inspect emotions, 'exit' to quit.\n", name)

	userName := envOr("USER_NAME", "User")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "exit", "quit", "q":
			return
		case "state":
			fmt.Println(a.State())
			continue
		}

		reply, err := a.ProcessInput(ctx, userName, input)
		if err != nil {
			log.Printf("Error: %v", err)
			continue
		}
		fmt.Printf("%s: %s\n", name, reply)
	}
}
