package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/jobalign/worker/internal/database"
	"github.com/jobalign/worker/internal/llm"
	"github.com/jobalign/worker/internal/llm/gemini"
	"github.com/jobalign/worker/internal/llm/openai"
	"github.com/jobalign/worker/internal/resumestore"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"
)

const agentInstruction = "You are a careful resume analysis agent. Follow the task given in each message exactly and return only what it asks for."

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("empty DB_URL in environment")
	}

	rabbitmqUrl := os.Getenv("RABBITMQ_URL")
	if rabbitmqUrl == "" {
		log.Fatal("empty RABBITMQ_URL in env")
	}

	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}

	dbqueries := database.New(db)

	r2AccountId := os.Getenv("R2_ACCOUNT_ID")
	if r2AccountId == "" {
		log.Fatal("empty R2_ACCOUNT_ID in environment")
	}
	r2Bucket := os.Getenv("R2_BUCKET")
	if r2Bucket == "" {
		log.Fatal("empty R2_BUCKET in environment")
	}
	r2SecretKey := os.Getenv("R2_SECRET_KEY")
	if r2SecretKey == "" {
		log.Fatal("empty R2_SECRET_KEY in environment")
	}
	r2AccessKey := os.Getenv("R2_ACCESS_KEY")
	if r2AccessKey == "" {
		log.Fatal("empty R2_ACCESS_KEY in environment")
	}
	r2Config := R2Config{
		AccountID: r2AccountId,
		AccessKey: r2AccessKey,
		SecretKey: r2SecretKey,
		Bucket:    r2Bucket,
	}
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2Config.AccessKey, r2Config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}

	geminiApiKey := os.Getenv("GEMINI_API_KEY")
	if geminiApiKey == "" {
		log.Fatal("empty GEMINI_API_KEY in env")
	}
	parserGen, err := gemini.New(ctx, gemini.Config{
		APIKey:      geminiApiKey,
		ModelID:     os.Getenv("GEMINI_MODEL"),
		Name:        "resume analyzer",
		Instruction: agentInstruction,
	})
	if err != nil {
		log.Fatalf("failed to create gemini generator: %v", err)
	}
	parser, err := llm.NewCaller(parserGen, llm.CallerConfig{MaxRetries: 3})
	if err != nil {
		log.Fatalf("failed to create parser caller: %v", err)
	}

	// The free-text review pass is optional: without an OpenAI key the
	// worker only extracts structured profiles.
	var reviewer *llm.Caller
	if openaiApiKey := os.Getenv("OPENAI_API_KEY"); openaiApiKey != "" {
		reviewerGen, err := openai.New(openaiApiKey, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
		if err != nil {
			log.Fatalf("failed to create openai generator: %v", err)
		}
		reviewer, err = llm.NewCaller(reviewerGen, llm.CallerConfig{MaxRetries: 3})
		if err != nil {
			log.Fatalf("failed to create reviewer caller: %v", err)
		}
	}

	var resumes *resumestore.Store
	if dir := os.Getenv("RESUME_DATA_DIR"); dir != "" {
		resumes, err = resumestore.New(dir)
		if err != nil {
			log.Fatalf("failed to create resume store: %v", err)
		}
	}

	conn, err := amqp.Dial(rabbitmqUrl)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
	}

	workerConfig := WorkerConfig{
		DB:          dbqueries,
		R2:          &r2Config,
		AwsConfig:   &awsConfig,
		RabbitMQUrl: rabbitmqUrl,
		RabbitConn:  conn,
		Parser:      parser,
		Reviewer:    reviewer,
		Resumes:     resumes,
	}

	fmt.Println("Starting 3 workers consumer pool ")
	workerConfig.StartConsumerWorkerPool(3)
}
