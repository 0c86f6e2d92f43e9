package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/cloud"
	"github.com/sirupsen/logrus"
)

// Browser lists and prints objects in the source buckets.
type Browser struct {
	client     cloud.S3API
	downloader *manager.Downloader
	log        logrus.FieldLogger
}

// New creates a Browser backed by client.
func New(client cloud.S3API, log logrus.FieldLogger) *Browser {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Browser{
		client: client,
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.Concurrency = 1
		}),
		log: log,
	}
}

// ParseURI splits an s3://bucket/prefix URI into its bucket and key prefix. Values without
// the s3:// scheme are treated as a bare bucket name.
func ParseURI(uri string) (bucket, prefix string) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, prefix
}

// ListBucket writes one line per object under prefix in bucket: key, size in bytes and
// last-modified time. Every page of results is listed.
func (b *Browser) ListBucket(ctx context.Context, w io.Writer, bucket, prefix string) error {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	paginator := s3.NewListObjectsV2Paginator(b.client, input)

	var count, pages int
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return errors.Wrapf(err, "failed to list s3://%s/%s", bucket, prefix)
		}

		pages++
		for _, obj := range page.Contents {
			count++
			fmt.Fprintf(tw, "%s\t%d\t%s\n",
				aws.ToString(obj.Key),
				aws.ToInt64(obj.Size),
				aws.ToTime(obj.LastModified).UTC().Format(time.RFC3339),
			)
		}
	}

	b.log.WithFields(logrus.Fields{
		"bucket":  bucket,
		"prefix":  prefix,
		"objects": count,
		"pages":   pages,
	}).Debug("Listed bucket")

	return errors.Wrap(tw.Flush(), "failed to write listing")
}

// PrintObject downloads bucket/key and writes it to w. JSON documents, including newline
// delimited JSON, are pretty printed; anything else is written as is.
func (b *Browser) PrintObject(ctx context.Context, w io.Writer, bucket, key string) error {
	buf := manager.NewWriteAtBuffer([]byte{})
	n, err := b.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to download s3://%s/%s", bucket, key)
	}

	b.log.WithFields(logrus.Fields{"bucket": bucket, "key": key, "bytes": n}).Debug("Downloaded object")

	data := buf.Bytes()
	if pretty, ok := prettyJSON(data); ok {
		data = pretty
	}

	_, err = w.Write(data)
	return errors.Wrap(err, "failed to write object")
}

// prettyJSON indents every JSON value in data. It reports false when data is not a
// sequence of JSON values.
func prettyJSON(data []byte) ([]byte, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	var out bytes.Buffer
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false
		}

		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return nil, false
		}
		out.WriteByte('\n')
	}

	return out.Bytes(), true
}
