package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"portfolio-backend/handler"
	"portfolio-backend/internal/integrations/openai"
	"portfolio-backend/internal/integrations/paramstore"
	"portfolio-backend/internal/integrations/resend"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	paramPrefix := mustEnv("PARAM_PREFIX")
	contactTable := mustEnv("CONTACT_TABLE")
	contactEmail := mustEnv("CONTACT_EMAIL")
	model := envOr("OPENAI_MODEL", "gpt-4.1-mini")
	projectID := os.Getenv("OPENAI_PROJECT_ID")
	ownerName := os.Getenv("OWNER_NAME")

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	contactStore, err := repository.New(awsdynamodb.NewFromConfig(cfg), contactTable)
	if err != nil {
		slog.Error("failed to create contact store", "err", err)
		os.Exit(1)
	}

	openaiClient, err := openai.NewClient(ssmClient, paramPrefix, openai.WithProjectID(projectID))
	if err != nil {
		slog.Error("failed to create OpenAI client", "err", err)
		os.Exit(1)
	}
	resendClient, err := resend.NewClient(ssmClient, paramPrefix, contactEmail)
	if err != nil {
		slog.Error("failed to create Resend client", "err", err)
		os.Exit(1)
	}

	// ---- Services ----
	chatService, err := usecase.NewChatService(openaiClient, model, ownerName)
	if err != nil {
		slog.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}
	contactService, err := usecase.NewContactService(resendClient, contactStore)
	if err != nil {
		slog.Error("failed to create contact service", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	h, err := handler.NewHandler(chatService, contactService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
