// Package drive delivers rendered invoices into a Google Drive folder.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"invoicer/internal/gcp"
	"invoicer/internal/logger"
	"invoicer/pkg/services"
)

// Ensure Sink implements DeliverySink
var _ services.DeliverySink = (*Sink)(nil)

// ErrFolderRequired is returned when no folder id is configured
var ErrFolderRequired = errors.New("drive folder id is required")

// files is the part of the Drive API the sink uses
type files interface {
	find(ctx context.Context, query string) (string, error)
	create(ctx context.Context, name, folderID, mimeType string, data []byte) (string, error)
	update(ctx context.Context, fileID, mimeType string, data []byte) error
}

// Sink writes invoices into one folder, replacing files of the same name
type Sink struct {
	files    files
	folderID string
	log      zerolog.Logger
}

// NewSink creates a Drive sink using the service account credentials
func NewSink(ctx context.Context, folderID string) (*Sink, error) {
	const op = "NewSink"

	if folderID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrFolderRequired)
	}

	client, err := gcp.HTTPClient(ctx, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create drive service: %w", op, err)
	}

	return newSink(&driveFiles{svc: svc}, folderID), nil
}

func newSink(f files, folderID string) *Sink {
	return &Sink{
		files:    f,
		folderID: folderID,
		log:      logger.WithComponent("drive"),
	}
}

// Deliver uploads the file, updating the content of an existing file with the same name
func (s *Sink) Deliver(ctx context.Context, fileName string, data []byte, mimeType string) (*services.DeliveryResult, error) {
	const op = "Deliver"

	existing, err := s.files.find(ctx, fileQuery(fileName, s.folderID))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to look up %s: %w", op, fileName, err)
	}

	result := &services.DeliveryResult{FileName: fileName}

	if existing != "" {
		if err := s.files.update(ctx, existing, mimeType, data); err != nil {
			return nil, fmt.Errorf("%s: failed to update %s: %w", op, fileName, err)
		}
		result.Action = services.ActionUpdated
		result.Location = existing
	} else {
		id, err := s.files.create(ctx, fileName, s.folderID, mimeType, data)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to create %s: %w", op, fileName, err)
		}
		result.Action = services.ActionCreated
		result.Location = id
	}

	s.log.Info().
		Str("file", fileName).
		Str("file_id", result.Location).
		Str("action", result.Action).
		Msg("Invoice uploaded")

	return result, nil
}

// fileQuery selects non-trashed files of a name inside a folder
func fileQuery(name, folderID string) string {
	return fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", escape(name), escape(folderID))
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// driveFiles talks to the Drive v3 API
type driveFiles struct {
	svc *drive.Service
}

func (d *driveFiles) find(ctx context.Context, query string) (string, error) {
	list, err := d.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (d *driveFiles) create(ctx context.Context, name, folderID, mimeType string, data []byte) (string, error) {
	file, err := d.svc.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{folderID},
		MimeType: mimeType,
	}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return file.Id, nil
}

func (d *driveFiles) update(ctx context.Context, fileID, mimeType string, data []byte) error {
	_, err := d.svc.Files.Update(fileID, &drive.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	return err
}
