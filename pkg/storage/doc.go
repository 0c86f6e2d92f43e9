// Package storage browses the S3 buckets holding the raw song and event data.
//
// Listing is paginated with s3.NewListObjectsV2Paginator and objects are fetched with the
// feature/s3/manager downloader, so large log files are retrieved in ranged parts.
package storage
