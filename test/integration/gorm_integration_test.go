package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/repository/specification"
	"rag-compare-be/internal/repository/unitofwork"
	"rag-compare-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ComparisonSessionRepository())
	assert.NotNil(t, uow.DocumentChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Comparison Session Repository", func(t *testing.T) {
		count, err := uow.ComparisonSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Session count: %d", count)
	})

	t.Run("Check Document Repository", func(t *testing.T) {
		count, err := uow.DocumentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Document count: %d", count)
	})

	t.Run("Check Transactional Session Message", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)

		sessionId := uuid.New()
		session := &entity.ComparisonSession{
			Id:    sessionId,
			Title: "integration test session",
		}
		err = uow.ComparisonSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		msg := &entity.ComparisonMessage{
			Id:             uuid.New(),
			SessionId:      sessionId,
			Prompt:         "integration prompt",
			BaselineAnswer: "baseline answer",
			RagAnswer:      "rag answer",
			Retrieval:      []entity.RetrievedChunk{},
		}
		err = uow.ComparisonMessageRepository().Create(ctx, msg)
		assert.NoError(t, err)

		// Both rows must be visible inside the transaction
		count, err := uow.ComparisonMessageRepository().Count(ctx, specification.BySessionID{SessionID: sessionId})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		// Roll back so repeated runs leave no rows behind
		err = uow.Rollback()
		assert.NoError(t, err)

		found, err := uow.ComparisonSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		assert.NoError(t, err)
		assert.Nil(t, found, "rolled-back session must not be visible")

		t.Log("Successfully created Session with Message in Transaction and rolled back")
	})
}
