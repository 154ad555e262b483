package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oakline/shopcart-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartBlob is the row shape backing the database Store.
type CartBlob struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CartBlob) TableName() string {
	return "cart_blobs"
}

type txRunner interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
}

// Database persists blobs in the cart_blobs table.
type Database struct {
	client txRunner
}

func NewDatabase(client *db.Client) (*Database, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &Database{client: client}, nil
}

func (d *Database) Get(ctx context.Context, key string) ([]byte, error) {
	var row CartBlob
	err := d.client.DB().WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.Payload, nil
}

func (d *Database) Put(ctx context.Context, key string, payload []byte) error {
	row := CartBlob{Key: key, Payload: payload, UpdatedAt: time.Now().UTC()}
	return d.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&row).Error
	})
}

func (d *Database) Delete(ctx context.Context, key string) error {
	return d.client.DB().WithContext(ctx).Delete(&CartBlob{}, "key = ?", key).Error
}

func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx)
}
