package s3

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"

	"ridefunnel/filestore"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*S3Driver)(nil)

type S3Driver struct {
	s3         *s3.S3
	BucketName string
	Region     string
}

func New(bucketName, region string) *S3Driver {
	session := session.New()
	s3 := s3.New(session, aws.NewConfig().WithRegion(region))
	return &S3Driver{s3: s3, BucketName: bucketName, Region: region}
}

// Create buffers the reader before upload. PutObject needs a seekable body.
func (sd *S3Driver) Create(dir, fileName string, reader io.Reader) error {
	content, err := ioutil.ReadAll(reader)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(sd.BucketName),
		Body:   bytes.NewReader(content),
		Key:    aws.String(dir + fileName),
	}
	_, err = sd.s3.PutObject(input)
	return err
}

func (sd *S3Driver) Get(dir, fileName string) (io.ReadCloser, error) {
	input := s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(dir + fileName),
	}
	op, err := sd.s3.GetObject(&input)
	if err != nil {
		return nil, err
	}
	return op.Body, nil
}

// ListFiles List objects under the given prefix.
func (sd *S3Driver) ListFiles(path string) []string {
	var files []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(sd.BucketName),
		Prefix: aws.String(path),
	}
	err := sd.s3.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			files = append(files, *obj.Key)
		}
		return true
	})
	if err != nil {
		log.WithError(err).Errorln("Failed to list bucket objects")
	}
	return files
}

// GetEventTablesDir returns the object prefix holding the source event tables.
func (sd *S3Driver) GetEventTablesDir() string {
	return "event_tables/"
}

// GetEventTableFilePathAndName maps a source table name to its csv object.
func (sd *S3Driver) GetEventTableFilePathAndName(table string) (string, string) {
	return sd.GetEventTablesDir(), fmt.Sprintf("%s.csv", table)
}

// GetReportFilePathAndName places generated reports under the reports/
// prefix, prefixed with their generation timestamp.
func (sd *S3Driver) GetReportFilePathAndName(reportName string, generatedAt int64) (string, string) {
	return "reports/", fmt.Sprintf("%d_%s", generatedAt, reportName)
}
