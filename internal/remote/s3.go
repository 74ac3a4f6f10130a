package remote

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/chunkup/internal/chunk"
	"github.com/dmitrijs2005/chunkup/internal/logging"
)

// minPartSize is the smallest part S3 accepts in a multipart upload (except
// the final one). Wire sub-chunks below it are clamped up transparently.
const minPartSize = 5 * 1024 * 1024

// metaContentMD5 is the object metadata key holding the hex MD5 digest of a
// chunk uploaded in multiple parts, where the ETag is no longer the plain
// MD5 of the content.
const metaContentMD5 = "content-md5"

// S3Config holds the connection settings for an S3-compatible endpoint
// (MinIO included).
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Store implements Store against one bucket, with the backup folder
// mapped to a key prefix: chunk "F.i" of folder "F" lives under key "F/F.i".
type S3Store struct {
	client *s3.Client
	bucket string
	folder string
	log    logging.Logger
}

// NewS3Store builds the authenticated client, makes sure the bucket exists,
// and scopes the store to the given folder.
func NewS3Store(ctx context.Context, cfg S3Config, folder string, log logging.Logger) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true // required for MinIO
	})

	store := &S3Store{client: client, bucket: cfg.Bucket, folder: folder, log: log}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("bucket %s missing and not creatable: %w", s.bucket, wrapStatus(err))
	}
	s.log.Info(ctx, "created bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Store) prefix() string {
	return s.folder + "/"
}

// List returns one page of the folder's objects. The content hash is taken
// from the ETag when the object was written in a single piece; multipart
// objects carry a composite ETag, so their digest is read back from the
// metadata recorded at upload time.
func (s *S3Store) List(ctx context.Context, pageToken string) (Page, error) {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix()),
	}
	if pageToken != "" {
		in.ContinuationToken = aws.String(pageToken)
	}

	out, err := s.client.ListObjectsV2(ctx, in)
	if err != nil {
		return Page{}, fmt.Errorf("list %s: %w", s.prefix(), wrapStatus(err))
	}

	page := Page{Records: make([]Record, 0, len(out.Contents))}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		hash := strings.Trim(aws.ToString(obj.ETag), `"`)
		if strings.Contains(hash, "-") {
			hash, err = s.metadataHash(ctx, key)
			if err != nil {
				return Page{}, err
			}
		}
		page.Records = append(page.Records, Record{
			ID:          key,
			Name:        strings.TrimPrefix(key, s.prefix()),
			Size:        aws.ToInt64(obj.Size),
			ContentHash: hash,
		})
	}
	if out.NextContinuationToken != nil {
		page.NextToken = aws.ToString(out.NextContinuationToken)
	}
	return page, nil
}

func (s *S3Store) metadataHash(ctx context.Context, key string) (string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("head %s: %w", key, wrapStatus(err))
	}
	return out.Metadata[metaContentMD5], nil
}

// Create starts a resumable upload of a new chunk object named name.
func (s *S3Store) Create(ctx context.Context, name string, media chunk.Media, contentHash string) (UploadSession, error) {
	return s.newUpload(s.prefix()+name, media, contentHash), nil
}

// Update replaces the object with the given id (its full key) in place.
// S3 has no separate update call; rewriting the key is the in-place update.
func (s *S3Store) Update(ctx context.Context, id string, media chunk.Media, contentHash string) (UploadSession, error) {
	return s.newUpload(id, media, contentHash), nil
}

// Download starts a ranged download of the object with the given id.
func (s *S3Store) Download(ctx context.Context, id string, size, subChunkSize int64) (DownloadSession, error) {
	if subChunkSize <= 0 {
		subChunkSize = chunk.DefaultSubChunkSize
	}
	return &s3Download{store: s, key: id, size: size, subChunk: subChunkSize}, nil
}

func (s *S3Store) newUpload(key string, media chunk.Media, contentHash string) *s3Upload {
	partSize := media.SubChunkSize()
	if partSize < minPartSize {
		partSize = minPartSize
	}
	return &s3Upload{
		store:       s,
		key:         key,
		media:       media,
		contentHash: contentHash,
		partSize:    partSize,
	}
}

// s3Upload advances one part per Next call. Parts already acknowledged by
// S3 are tracked in parts and never re-sent; a failed call leaves the
// session position untouched, so the same part is retried.
type s3Upload struct {
	store       *S3Store
	key         string
	media       chunk.Media
	contentHash string
	partSize    int64

	uploadID string
	parts    []types.CompletedPart
	sent     int64
}

func (u *s3Upload) Next(ctx context.Context) (Progress, bool, error) {
	size := u.media.Size()

	// Chunks that fit in a single part skip the multipart protocol, which
	// also keeps the object's ETag equal to its MD5.
	if size <= u.partSize && u.uploadID == "" {
		if err := u.putWhole(ctx); err != nil {
			return Progress{Done: 0, Total: size}, false, err
		}
		u.sent = size
		return Progress{Done: size, Total: size}, true, nil
	}

	if u.uploadID == "" {
		if err := u.begin(ctx); err != nil {
			return Progress{Done: 0, Total: size}, false, err
		}
	}

	if u.sent < size {
		if err := u.uploadPart(ctx); err != nil {
			return Progress{Done: u.sent, Total: size}, false, err
		}
	}

	if u.sent >= size {
		if err := u.complete(ctx); err != nil {
			return Progress{Done: u.sent, Total: size}, false, err
		}
		return Progress{Done: u.sent, Total: size}, true, nil
	}
	return Progress{Done: u.sent, Total: size}, false, nil
}

func (u *s3Upload) putWhole(ctx context.Context) error {
	size := u.media.Size()
	_, err := u.store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.store.bucket),
		Key:           aws.String(u.key),
		Body:          io.NewSectionReader(u.media, 0, size),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(u.media.ContentType()),
		Metadata:      map[string]string{metaContentMD5: u.contentHash},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", u.key, wrapStatus(err))
	}
	return nil
}

func (u *s3Upload) begin(ctx context.Context) error {
	out, err := u.store.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(u.store.bucket),
		Key:         aws.String(u.key),
		ContentType: aws.String(u.media.ContentType()),
		Metadata:    map[string]string{metaContentMD5: u.contentHash},
	})
	if err != nil {
		return fmt.Errorf("begin upload %s: %w", u.key, wrapStatus(err))
	}
	u.uploadID = aws.ToString(out.UploadId)
	return nil
}

func (u *s3Upload) uploadPart(ctx context.Context) error {
	n := u.partSize
	if remaining := u.media.Size() - u.sent; n > remaining {
		n = remaining
	}
	partNumber := int32(len(u.parts)) + 1

	out, err := u.store.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        aws.String(u.store.bucket),
		Key:           aws.String(u.key),
		UploadId:      aws.String(u.uploadID),
		PartNumber:    aws.Int32(partNumber),
		Body:          io.NewSectionReader(u.media, u.sent, n),
		ContentLength: aws.Int64(n),
	})
	if err != nil {
		return fmt.Errorf("upload part %d of %s: %w", partNumber, u.key, wrapStatus(err))
	}

	u.parts = append(u.parts, types.CompletedPart{
		ETag:       out.ETag,
		PartNumber: aws.Int32(partNumber),
	})
	u.sent += n
	return nil
}

func (u *s3Upload) complete(ctx context.Context) error {
	_, err := u.store.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(u.store.bucket),
		Key:             aws.String(u.key),
		UploadId:        aws.String(u.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: u.parts},
	})
	if err != nil {
		return fmt.Errorf("complete upload %s: %w", u.key, wrapStatus(err))
	}
	return nil
}

func (u *s3Upload) Abort(ctx context.Context) error {
	if u.uploadID == "" {
		return nil
	}
	_, err := u.store.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(u.store.bucket),
		Key:      aws.String(u.key),
		UploadId: aws.String(u.uploadID),
	})
	if err != nil {
		return fmt.Errorf("abort upload %s: %w", u.key, wrapStatus(err))
	}
	return nil
}

// s3Download fetches one ranged sub-chunk per Next call and tracks its own
// position, so a retried call resumes where the last acknowledged byte
// left off.
type s3Download struct {
	store    *S3Store
	key      string
	size     int64
	subChunk int64
	fetched  int64
}

func (d *s3Download) Next(ctx context.Context, w io.Writer) (Progress, bool, error) {
	if d.fetched >= d.size {
		return Progress{Done: d.fetched, Total: d.size}, true, nil
	}

	end := d.fetched + d.subChunk
	if end > d.size {
		end = d.size
	}

	out, err := d.store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.store.bucket),
		Key:    aws.String(d.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", d.fetched, end-1)),
	})
	if err != nil {
		return Progress{Done: d.fetched, Total: d.size}, false, fmt.Errorf("get %s: %w", d.key, wrapStatus(err))
	}
	defer out.Body.Close()

	n, err := io.Copy(w, out.Body)
	d.fetched += n
	if err != nil {
		return Progress{Done: d.fetched, Total: d.size}, false, fmt.Errorf("read %s: %w", d.key, err)
	}

	return Progress{Done: d.fetched, Total: d.size}, d.fetched >= d.size, nil
}
