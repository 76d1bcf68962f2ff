// Package export writes audit snapshots of every order an owner ever placed,
// cancelled ones included, to S3 or any writer.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/Lixing-Zhang/orderboard/internal/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopspring/decimal"
)

// Snapshot is the exported document
type Snapshot struct {
	OwnerID    string                 `json:"ownerId"`
	ExportedAt time.Time              `json:"exportedAt"`
	Count      int                    `json:"count"`
	Cancelled  int                    `json:"cancelled"`
	Revenue    decimal.Decimal        `json:"revenue"`
	Orders     []models.OrderResponse `json:"orders"`
}

// NewSnapshot summarizes orders. Revenue counts completed and delivered
// orders only.
func NewSnapshot(ownerID string, orders []models.Order, at time.Time) Snapshot {
	s := Snapshot{
		OwnerID:    ownerID,
		ExportedAt: at,
		Count:      len(orders),
		Revenue:    decimal.Zero,
		Orders:     make([]models.OrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		switch {
		case o.Deleted:
			s.Cancelled++
		case o.Status.Terminal():
			s.Revenue = s.Revenue.Add(o.Total())
		}
		s.Orders = append(s.Orders, models.NewOrderResponse(o))
	}
	return s
}

// ObjectPutter is the part of the S3 client the exporter uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client loads the default AWS credential chain for region
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Exporter reads every order of an owner and writes it out as one JSON
// document
type Exporter struct {
	store store.OrderStore
	log   *slog.Logger
	now   func() time.Time
}

// NewExporter creates an exporter over st
func NewExporter(st store.OrderStore, log *slog.Logger) *Exporter {
	return &Exporter{
		store: st,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot loads the audit snapshot for ownerID
func (e *Exporter) Snapshot(ctx context.Context, ownerID string) (Snapshot, error) {
	orders, err := e.store.LoadAllOrders(ctx, ownerID)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(ownerID, orders, e.now()), nil
}

// WriteTo encodes the snapshot of ownerID as indented JSON
func (e *Exporter) WriteTo(ctx context.Context, ownerID string, w io.Writer) (Snapshot, error) {
	snap, err := e.Snapshot(ctx, ownerID)
	if err != nil {
		return Snapshot{}, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return snap, nil
}

// Upload writes the snapshot of ownerID to bucket and returns the object key
func (e *Exporter) Upload(ctx context.Context, putter ObjectPutter, bucket, prefix, ownerID string) (string, error) {
	var buf bytes.Buffer
	snap, err := e.WriteTo(ctx, ownerID, &buf)
	if err != nil {
		return "", err
	}

	key := ObjectKey(prefix, ownerID, snap.ExportedAt)
	_, err = putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload snapshot to S3: %w", err)
	}

	e.log.Info("audit snapshot uploaded",
		"bucket", bucket,
		"key", key,
		"orders", snap.Count,
		"cancelled", snap.Cancelled,
	)
	return key, nil
}

// ObjectKey lays snapshots out by owner and day:
// <prefix>/<owner>/2024/03/01/093000.json
func ObjectKey(prefix, ownerID string, at time.Time) string {
	return path.Join(prefix, ownerID, at.Format("2006/01/02"), at.Format("150405")+".json")
}
