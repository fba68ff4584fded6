package gcstorage

import (
	"context"
	"fmt"
	"io"

	"ridefunnel/filestore"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

var _ filestore.FileManager = (*GCSDriver)(nil)

type GCSDriver struct {
	client     *storage.Client
	BucketName string
}

func New(bucketName string) (*GCSDriver, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	d := &GCSDriver{
		BucketName: bucketName,
		client:     client,
	}
	return d, nil
}

func (gcsd *GCSDriver) Create(dir, fileName string, reader io.Reader) error {
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, reader); err != nil {
		return err
	}
	err := w.Close()
	return err
}

func (gcsd *GCSDriver) Get(dir, fileName string) (io.ReadCloser, error) {
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	rc, err := obj.NewReader(ctx)
	return rc, err
}

// ListFiles List objects under the given prefix.
func (gcsd *GCSDriver) ListFiles(path string) []string {
	ctx := context.Background()
	var files []string
	it := gcsd.client.Bucket(gcsd.BucketName).Objects(ctx, &storage.Query{Prefix: path})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.WithError(err).Errorln("Failed to list bucket objects")
			return files
		}
		files = append(files, attrs.Name)
	}
	return files
}

// GetEventTablesDir returns the object prefix holding the source event tables.
func (gcsd *GCSDriver) GetEventTablesDir() string {
	return "event_tables/"
}

// GetEventTableFilePathAndName maps a source table name to its csv object.
func (gcsd *GCSDriver) GetEventTableFilePathAndName(table string) (string, string) {
	return gcsd.GetEventTablesDir(), fmt.Sprintf("%s.csv", table)
}

// GetReportFilePathAndName places generated reports under the reports/
// prefix, prefixed with their generation timestamp.
func (gcsd *GCSDriver) GetReportFilePathAndName(reportName string, generatedAt int64) (string, string) {
	return "reports/", fmt.Sprintf("%d_%s", generatedAt, reportName)
}
