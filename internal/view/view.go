// Package view holds the typed models the templates render. Handlers
// assemble these; templates never see catalog or storage handles.
package view

import (
	"GoVault/model"
	"fmt"
)

type AuthPage struct {
	Title string
	Error string
}

type HomePage struct {
	LoggedIn bool
	Handle   string
}

type FileView struct {
	ID          uint64
	Name        string
	Size        int64
	SizeLabel   string
	ContentType string
	Uploaded    string
}

type FilesPage struct {
	Handle string
	Files  []FileView
	Error  string
}

// NewFileView converts a catalog row for rendering.
func NewFileView(record model.FileRecord) FileView {
	return FileView{
		ID:          record.ID,
		Name:        record.Name,
		Size:        record.Size,
		SizeLabel:   SizeLabel(record.Size),
		ContentType: record.ContentType,
		Uploaded:    record.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// NewFilesPage builds the file-list page model.
func NewFilesPage(handle string, records []model.FileRecord) FilesPage {
	files := make([]FileView, 0, len(records))
	for _, record := range records {
		files = append(files, NewFileView(record))
	}
	return FilesPage{
		Handle: handle,
		Files:  files,
	}
}

// SizeLabel formats a byte count for display.
func SizeLabel(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
