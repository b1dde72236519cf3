// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/invoicelens/go-invoicelens/internal/config"
	"github.com/invoicelens/go-invoicelens/internal/domain"
	"github.com/invoicelens/go-invoicelens/internal/handlers"
	"github.com/invoicelens/go-invoicelens/internal/middleware"
	documentrepo "github.com/invoicelens/go-invoicelens/internal/repository/document"
	messagerepo "github.com/invoicelens/go-invoicelens/internal/repository/message"
	ocrrepo "github.com/invoicelens/go-invoicelens/internal/repository/ocr"
	threadrepo "github.com/invoicelens/go-invoicelens/internal/repository/thread"
	userrepo "github.com/invoicelens/go-invoicelens/internal/repository/user"
	"github.com/invoicelens/go-invoicelens/internal/services"
	"github.com/invoicelens/go-invoicelens/internal/services/llm"
	"github.com/invoicelens/go-invoicelens/internal/services/ocrengine"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Document{},
		&domain.OcrResult{},
		&domain.ChatThread{},
		&domain.Message{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	documentRepo := documentrepo.NewDocumentRepository(db)
	ocrRepo := ocrrepo.NewOcrResultRepository(db)
	threadRepo := threadrepo.NewThreadRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	logger := services.NewLogger("invoicelens")
	guard := services.NewOwnershipGuard(documentRepo, threadRepo, logger)

	llmConfig := llm.DefaultConfig()
	llmConfig.APIKey = cfg.OpenAIAPIKey
	llmConfig.BaseURL = cfg.OpenAIBaseURL
	llmConfig.Model = cfg.OpenAIModel
	if err := llmConfig.Validate(); err != nil {
		log.Fatalf("FATAL: invalid LLM configuration: %v", err)
	}
	provider := llm.NewOpenAIProvider(llmConfig)

	recognizer := ocrengine.NewTesseractRecognizer()

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)
	documentService := services.NewDocumentService(
		documentRepo, ocrRepo, threadRepo, messageRepo,
		guard, recognizer, cfg.OCRLanguage, logger,
	)
	chatService, err := services.NewChatService(threadRepo, messageRepo, guard, provider, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	documentHandler := handlers.NewDocumentHandler(documentService, cfg.UploadDir, logger)
	chatHandler := handlers.NewChatHandler(chatService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(cfg.JWTSecretKey)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/documents/upload", documentHandler.Upload).Methods("POST")
	api.HandleFunc("/documents", documentHandler.List).Methods("GET")
	api.HandleFunc("/documents", documentHandler.DeleteAll).Methods("DELETE")
	api.HandleFunc("/documents/{id:[0-9]+}", documentHandler.Get).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/file", documentHandler.File).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/export", documentHandler.Export).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/chat", documentHandler.DeleteChat).Methods("DELETE")

	api.HandleFunc("/documents/{documentId:[0-9]+}/threads", chatHandler.CreateThread).Methods("POST")
	api.HandleFunc("/threads/{threadId:[0-9]+}/messages", chatHandler.AddMessage).Methods("POST")
	api.HandleFunc("/threads/{threadId:[0-9]+}", chatHandler.GetThread).Methods("GET")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("==================================================")
	log.Printf("InvoiceLens - Invoice OCR & Chat API")
	log.Printf("==================================================")
	log.Printf("Server starting on port %s", port)
	log.Printf("Local access: http://localhost%s", port)
	log.Printf("==================================================")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
