package filestore

import (
	"io"
)

// FileManager abstracts where the event table files and generated reports
// live. Disk, gcs and s3 drivers implement it; loaders and report writers
// stay independent of the backing store.
type FileManager interface {
	Create(dir, fileName string, reader io.Reader) error
	Get(path, fileName string) (io.ReadCloser, error)
	ListFiles(path string) []string
	GetEventTablesDir() string
	GetEventTableFilePathAndName(table string) (string, string)
	GetReportFilePathAndName(reportName string, generatedAt int64) (string, string)
}
