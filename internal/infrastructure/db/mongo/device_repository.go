package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mz310/FitProof/internal/core/domain"
)

type DeviceRepository struct {
	coll *mongo.Collection
}

func NewDeviceRepository(db *mongo.Database) *DeviceRepository {
	return &DeviceRepository{coll: db.Collection(collectionDevices)}
}

type deviceDoc struct {
	ID       string `bson:"_id"`
	Code     string `bson:"code"`
	Name     string `bson:"name"`
	Location string `bson:"location"`
	Active   bool   `bson:"is_active"`
}

func (d deviceDoc) toDomain() domain.Device {
	return domain.Device{ID: d.ID, Code: d.Code, Name: d.Name, Location: d.Location, Active: d.Active}
}

func (r *DeviceRepository) FindActiveByCode(ctx context.Context, code string) (*domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d deviceDoc
	if err := r.coll.FindOne(ctx, bson.M{"code": code, "is_active": true}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound("device", code)
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	device := d.toDomain()
	return &device, nil
}

func (r *DeviceRepository) ListActive(ctx context.Context) ([]domain.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	var docs []deviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}

	devices := make([]domain.Device, 0, len(docs))
	for _, d := range docs {
		devices = append(devices, d.toDomain())
	}
	return devices, nil
}

// Upsert keys on code; the _id is only written when the document is new.
func (r *DeviceRepository) Upsert(ctx context.Context, device *domain.Device) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":      device.Name,
			"location":  device.Location,
			"is_active": device.Active,
		},
		"$setOnInsert": bson.M{"_id": device.ID},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"code": device.Code}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}
