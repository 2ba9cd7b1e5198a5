package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"rag-compare-be/internal/dto"
	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/repository/specification"
	"rag-compare-be/internal/repository/unitofwork"
	"rag-compare-be/pkg/embedding"
	"rag-compare-be/pkg/events"
	pktNats "rag-compare-be/pkg/nats"
	"rag-compare-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	chunkSize         int
	chunkOverlap      int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	chunkSize int,
	chunkOverlap int,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Ingesting document %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Deleted while queued? Ack.
		return
	}

	chunks := utils.SplitText(doc.Content, cs.chunkSize, cs.chunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", doc.Id, len(chunks))

	newChunks := make([]*entity.DocumentChunk, 0, len(chunks))
	for _, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk.Text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			// Embedding failures are terminal for this document: flag it and
			// drop the job rather than retrying forever.
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", chunk.Index, doc.Id, err)
			cs.markFailed(ctx, doc, fmt.Sprintf("embedding chunk %d: %v", chunk.Index, err))
			msg.Ack()
			return
		}
		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			Content:        chunk.Text,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     chunk.Index,
			StartOffset:    chunk.Start,
			EndOffset:      chunk.End,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			log.Printf("[ERROR] Failed to create bulk chunks: %v", err)
			msg.Nack()
			return
		}
	}

	doc.Status = entity.DocumentStatusReady
	doc.FailReason = nil
	doc.ChunkCount = len(newChunks)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to update document status: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document ingested: %d chunks for %s", len(newChunks), doc.Id)
	msg.Ack()

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIngested(doc.Id.String(), len(newChunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish document.ingested event: %v\n", err)
		}
	}
}

func (cs *consumerService) markFailed(ctx context.Context, doc *entity.Document, reason string) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	doc.Status = entity.DocumentStatusFailed
	doc.FailReason = &reason
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to mark document %s as failed: %v", doc.Id, err)
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentFailed(doc.Id.String(), reason)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish document.failed event: %v\n", err)
		}
	}
}
