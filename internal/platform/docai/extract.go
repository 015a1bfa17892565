package docai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/fieldmaskpb"

	"github.com/pembrokehq/reflect-backend/internal/platform/ctxutil"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
)

// Extractor converts an uploaded document into plain text via Document AI.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
	Close() error
}

type extractor struct {
	log    *logger.Logger
	client *documentai.DocumentProcessorClient

	projectID    string
	location     string
	processorID  string
	processorVer string
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func NewExtractor(log *logger.Logger) (Extractor, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "docai.Extractor")

	location := strings.TrimSpace(os.Getenv("DOCUMENTAI_LOCATION"))
	if location == "" {
		location = "us"
	}
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)

	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, clientOptionsFromEnv()...)
	c, err := documentai.NewDocumentProcessorClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}

	slog.Info("Document AI initialized", "endpoint", endpoint)

	return &extractor{
		log:          slog,
		client:       c,
		projectID:    strings.TrimSpace(os.Getenv("GCP_PROJECT_ID")),
		location:     location,
		processorID:  strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_ID")),
		processorVer: strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_VERSION")),
	}, nil
}

func (e *extractor) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}

func (e *extractor) processorName() string {
	if e.projectID == "" || e.location == "" || e.processorID == "" {
		return ""
	}
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s", e.projectID, e.location, e.processorID)
	if e.processorVer != "" {
		return base + "/processorVersions/" + e.processorVer
	}
	return base
}

// ExtractText runs online document processing on raw bytes and returns the
// document's primary text. Extraction failures are terminal; no retry.
func (e *extractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	if len(data) == 0 {
		return "", fmt.Errorf("document is empty")
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	name := e.processorName()
	if name == "" {
		return "", fmt.Errorf("documentai processor not configured (GCP_PROJECT_ID, DOCUMENTAI_PROCESSOR_ID)")
	}

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
		FieldMask: &fieldmaskpb.FieldMask{Paths: []string{"text"}},
	}

	resp, err := e.client.ProcessDocument(ctx, req)
	if err != nil {
		return "", fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	if resp == nil || resp.Document == nil {
		return "", fmt.Errorf("documentai returned no document")
	}
	return strings.TrimSpace(resp.Document.Text), nil
}
