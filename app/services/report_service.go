package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/pkg/storage"
	"gorm.io/gorm"
)

// ReportService is the read side of the ledger plus document attachment.
// All mutations of ledger rows go through LedgerService, never through here.
type ReportService struct {
	history *repositories.HistoryRepository
}

func NewReportService(history *repositories.HistoryRepository) *ReportService {
	return &ReportService{history: history}
}

func (s *ReportService) Get(id uint) (models.MovementView, error) {
	view, err := s.history.View(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MovementView{}, ErrHistoryNotFound
	}
	if err != nil {
		return models.MovementView{}, storageErr("read movement view", err)
	}
	return view, nil
}

func (s *ReportService) List(filter repositories.MovementFilter) ([]models.MovementView, repositories.Pagination, error) {
	views, p, err := s.history.ListMovements(filter)
	if err != nil {
		return nil, repositories.Pagination{}, storageErr("list movements", err)
	}
	return views, p, nil
}

// AttachDocument stores an uploaded movement document (delivery note,
// goods-receipt slip) on the configured disk and records its reference
// on the ledger entry. Returns the public URL of the stored file.
func (s *ReportService) AttachDocument(id uint, filename string, content io.Reader) (string, error) {
	if _, err := s.Get(id); err != nil {
		return "", err
	}

	name := sanitizeFilename(filename)
	if name == "" {
		return "", validationErr("document", "The document filename is invalid.")
	}

	path := fmt.Sprintf("documents/reports/%d/%d-%s", id, time.Now().Unix(), name)
	if err := storage.PutStream(path, content); err != nil {
		return "", storageErr("store document", err)
	}

	if err := s.history.SetDocumentRef(id, path); err != nil {
		// Don't leave an orphaned file behind.
		_ = storage.Delete(path)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrHistoryNotFound
		}
		return "", storageErr("record document ref", err)
	}

	return storage.URL(path), nil
}

// sanitizeFilename strips directories and anything but a conservative
// character set from an uploaded filename.
func sanitizeFilename(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
