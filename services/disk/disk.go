package disk

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"ridefunnel/filestore"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// This can be used as namespace
	// to differentiate files across multiple instances of DiskDriver
	// Analogous to bucket name
	baseDir string
}

func New(baseDir string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir}
}

func MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (dd *DiskDriver) Create(path, fileName string, reader io.Reader) error {
	err := MkdirAll(path)
	if err != nil {
		log.WithError(err).Errorln("Failed to create dir")
		return err
	}

	if !strings.HasSuffix(path, "/") {
		// Append / to the end if not present.
		path = path + "/"
	}
	file, err := os.Create(path + fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, reader)
	return err
}

// Get opens a file in read only mode.
// Caller should take care of closing the returned io.ReadCloser.
func (dd *DiskDriver) Get(path, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Path":     path,
		"FileName": fileName,
	}).Debug("DiskDriver Opening file")

	if !strings.HasSuffix(path, "/") {
		// Append / to the end if not present.
		path = path + "/"
	}
	file, err := os.OpenFile(path+fileName, os.O_RDONLY, 0444)
	return file, err
}

// ListFiles List files present in a directory.
func (dd *DiskDriver) ListFiles(path string) []string {
	var files []string
	fileObjects, err := ioutil.ReadDir(path)
	if err != nil {
		log.WithError(err).Errorln("Failed to read directory contents")
		return files
	}

	for _, file := range fileObjects {
		files = append(files, path+"/"+file.Name())
	}
	return files
}

// GetEventTablesDir returns the directory holding the source event tables.
func (dd *DiskDriver) GetEventTablesDir() string {
	return fmt.Sprintf("%s/", dd.baseDir)
}

// GetEventTableFilePathAndName maps a source table name to its csv file.
func (dd *DiskDriver) GetEventTableFilePathAndName(table string) (string, string) {
	return dd.GetEventTablesDir(), fmt.Sprintf("%s.csv", table)
}

// GetReportFilePathAndName places generated reports under reports/ next to
// the source data, prefixed with their generation timestamp.
func (dd *DiskDriver) GetReportFilePathAndName(reportName string, generatedAt int64) (string, string) {
	path := fmt.Sprintf("%sreports/", dd.GetEventTablesDir())
	return path, fmt.Sprintf("%d_%s", generatedAt, reportName)
}
