package main

import (
	"ServiceBot/database/postgres"
	knowledgeRepository "ServiceBot/internal/api/knowledge/repository"
	"ServiceBot/internal/entity"
	"ServiceBot/pkg/log"
	"ServiceBot/pkg/utils"
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
)

const schemaKnowledgeRecords = `
	CREATE TABLE IF NOT EXISTS knowledge_records (
		id          VARCHAR(26) PRIMARY KEY,
		topic       TEXT NOT NULL DEFAULT '',
		question    TEXT NOT NULL,
		keywords    TEXT NOT NULL DEFAULT '',
		synonyms    TEXT NOT NULL DEFAULT '',
		answer      TEXT NOT NULL,
		summary     TEXT,
		answer_type VARCHAR(16) NOT NULL DEFAULT 'short',
		confidence  DOUBLE PRECISION NOT NULL DEFAULT 0,
		source      VARCHAR(32) NOT NULL DEFAULT 'seed',
		variant_of  VARCHAR(26),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_knowledge_records_question ON knowledge_records (question);
`

const schemaChatLog = `
	CREATE TABLE IF NOT EXISTS chat_log (
		id         VARCHAR(26) PRIMARY KEY,
		question   TEXT NOT NULL,
		answer     TEXT NOT NULL,
		source     VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_log_created_at ON chat_log (created_at);
`

type seedRecord struct {
	topic    string
	question string
	keywords []string
	synonyms []string
	answer   string
}

var starterRecords = []seedRecord{
	{
		topic:    "dbms",
		question: "what is normalization in dbms",
		keywords: []string{"normalization", "dbms", "normal", "form"},
		synonyms: []string{"normalisation", "database"},
		answer:   "Normalization organizes a relational database to reduce redundancy and improve integrity. Data is split across tables following normal forms, most commonly up to 3NF.",
	},
	{
		topic:    "data structures",
		question: "what is a binary search tree",
		keywords: []string{"binary", "search", "tree", "bst"},
		synonyms: []string{"data", "structures"},
		answer:   "A binary search tree is a node-based tree where every left descendant is smaller and every right descendant is larger than its parent, giving O(log n) average lookups.",
	},
	{
		topic:    "operating systems",
		question: "what is a deadlock in operating systems",
		keywords: []string{"deadlock", "operating", "process"},
		synonyms: []string{"os", "deadlocks"},
		answer:   "A deadlock is a state where a set of processes each hold a resource the next one needs, so none can proceed. It requires mutual exclusion, hold and wait, no preemption, and circular wait.",
	},
	{
		topic:    "networks",
		question: "what are the layers of the osi model",
		keywords: []string{"osi", "model", "layers", "network"},
		synonyms: []string{"networking", "networks"},
		answer:   "The OSI model has seven layers: physical, data link, network, transport, session, presentation, and application.",
	},
	{
		topic:    "exams",
		question: "when are the semester exams",
		keywords: []string{"exam", "exams", "semester", "date", "schedule"},
		synonyms: []string{"examination", "timetable"},
		answer:   "Semester exams run in the last two weeks of the term. The detailed timetable is published on the department notice board three weeks before the first paper.",
	},
}

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	clearFirst := flag.Bool("clear", false, "delete existing knowledge records before seeding")
	flag.Parse()

	db, err := postgres.New()
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schemaKnowledgeRecords); err != nil {
		logger.Fatalf("Failed to create knowledge_records table: %v", err)
	}
	if _, err := db.ExecContext(ctx, schemaChatLog); err != nil {
		logger.Fatalf("Failed to create chat_log table: %v", err)
	}

	repo := knowledgeRepository.New(db, logger)
	client, err := repo.NewClient(false)
	if err != nil {
		logger.Fatalf("Failed to create repository client: %v", err)
	}

	if *clearFirst {
		if err := client.Records.ClearRecords(ctx); err != nil {
			logger.Fatalf("Failed to clear knowledge records: %v", err)
		}
		logger.Info("Cleared existing knowledge records")
	}

	utilsInstance := utils.New()
	now := time.Now()

	seeded := 0
	for _, rec := range starterRecords {
		id, err := utilsInstance.NewULIDFromTimestamp(now)
		if err != nil {
			logger.Fatalf("Failed to generate record id: %v", err)
		}

		record := entity.KnowledgeRecord{
			ID:         id,
			Topic:      rec.topic,
			Question:   utilsInstance.NormalizeQuestion(rec.question),
			Keywords:   utilsInstance.JoinKeywords(rec.keywords),
			Synonyms:   utilsInstance.JoinKeywords(rec.synonyms),
			Answer:     rec.answer,
			AnswerType: "short",
			Confidence: 1.0,
			Source:     "seed",
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := client.Records.CreateRecord(ctx, record); err != nil {
			logger.Fatalf("Failed to seed record %q: %v", rec.question, err)
		}
		seeded++
	}

	logger.Infof("Knowledge store initialized, %d records seeded", seeded)
}
