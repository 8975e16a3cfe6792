package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"day-assistant/internal/config"
	"day-assistant/internal/db"
	"day-assistant/internal/llm"
	"day-assistant/internal/repository"
	"day-assistant/internal/service"
	"day-assistant/internal/tools"
)

// Chat de consola contra el pipeline completo; útil para probar el ruteo sin
// levantar el server HTTP.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	schema, err := os.ReadFile(cfg.SchemaFile)
	if err != nil {
		log.Fatalf("leer esquema: %v", err)
	}

	store := repository.NewPgSessionStore(pool)
	docRepo := repository.NewPgDocumentRepository(pool)
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbedModel, zap.NewStdLog(logger))

	registry := tools.NewRegistry()
	if err := registry.Register(tools.VectorToolName, tools.VectorToolDescription,
		tools.NewVectorLookup(llmClient, docRepo, cfg.SearchTopK)); err != nil {
		log.Fatal(err)
	}
	runner := tools.NewLLMQueryRunner(llmClient, string(schema))
	if err := registry.Register(tools.StructuredToolName, tools.StructuredToolDescription,
		tools.NewStructuredLookup(runner)); err != nil {
		log.Fatal(err)
	}

	reformulator := service.NewReformulator(llmClient, cfg.HistoryWindow)
	router := service.NewToolRouter(registry, service.NewLLMDecider(llmClient))
	namer := service.NewSessionNamer(llmClient)
	chatSvc := service.NewChatService(store, reformulator, router, namer, nil, logger, cfg.HistoryWindow)

	fmt.Print("employee id: ")
	employeeID, _ := reader.ReadString('\n')
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		log.Fatal("employee id requerido")
	}

	sessionID := ""
	fmt.Println("escribí tu consulta ('exit' para salir, 'new' para sesión nueva)")
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit":
			return
		case "new":
			sessionID = ""
			fmt.Println("sesión nueva en la próxima consulta")
			continue
		}

		result, err := chatSvc.HandleQuery(ctx, employeeID, sessionID, line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		sessionID = result.SessionID
		fmt.Printf("[%s] %s\n", result.SessionID, result.Response)
	}
}
