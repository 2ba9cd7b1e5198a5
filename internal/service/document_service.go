package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rag-compare-be/internal/dto"
	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/pkg/logger"
	"rag-compare-be/internal/repository/specification"
	"rag-compare-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound = errors.New("Document not found")
	ErrUnsupportedFile  = errors.New("unsupported file type, expected .txt or .md")
	ErrEmptyDocument    = errors.New("document is empty")
)

type IDocumentService interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (*dto.UploadDocumentResponse, error)
	GetAll(ctx context.Context, status string) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	uploadDir        string
	log              logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	uploadDir string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		uploadDir:        uploadDir,
		log:              log,
	}
}

// Upload stores the document as pending and queues an ingest job. Chunking
// and embedding happen asynchronously in the consumer.
func (ds *documentService) Upload(ctx context.Context, fileName, contentType string, data []byte) (*dto.UploadDocumentResponse, error) {
	if !isSupportedFile(fileName) {
		return nil, ErrUnsupportedFile
	}
	content := strings.ToValidUTF8(string(data), "")
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyDocument
	}

	doc := entity.Document{
		Id:          uuid.New(),
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Content:     content,
		Status:      entity.DocumentStatusPending,
		CreatedAt:   time.Now(),
	}

	uow := ds.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	// Keep the raw upload on disk so it can be served back verbatim.
	if err := os.MkdirAll(ds.uploadDir, 0o755); err == nil {
		_ = os.WriteFile(ds.storagePath(&doc), data, 0o644)
	}

	payload := dto.PublishIngestDocumentMessage{
		DocumentId: doc.Id,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := ds.publisherService.Publish(ctx, payloadJson); err != nil {
		return nil, err
	}

	ds.log.Info("document_service", "Document uploaded", map[string]interface{}{
		"document_id": doc.Id.String(),
		"file_name":   doc.FileName,
		"size_bytes":  doc.SizeBytes,
	})

	return &dto.UploadDocumentResponse{
		Id:       doc.Id,
		FileName: doc.FileName,
		Status:   string(doc.Status),
	}, nil
}

func (ds *documentService) GetAll(ctx context.Context, status string) ([]*dto.DocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if status != "" && status != "all" {
		specs = append(specs, specification.Filter("status", status))
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, &dto.DocumentResponse{
			Id:          doc.Id,
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			SizeBytes:   doc.SizeBytes,
			Status:      string(doc.Status),
			FailReason:  doc.FailReason,
			ChunkCount:  doc.ChunkCount,
			CreatedAt:   doc.CreatedAt,
			UpdatedAt:   doc.UpdatedAt,
		})
	}
	return out, nil
}

func (ds *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	_ = os.Remove(ds.storagePath(doc))

	ds.log.Info("document_service", "Document deleted", map[string]interface{}{
		"document_id": id.String(),
		"file_name":   doc.FileName,
	})
	return nil
}

func (ds *documentService) storagePath(doc *entity.Document) string {
	return filepath.Join(ds.uploadDir, fmt.Sprintf("%s_%s", doc.Id, filepath.Base(doc.FileName)))
}

func isSupportedFile(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".md", ".markdown":
		return true
	default:
		return false
	}
}
