package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

const contractCollection = "contracts"

// ContractRepository implements ports.ContractRepository using MongoDB.
type ContractRepository struct {
	coll *mongo.Collection
}

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{coll: db.Collection(contractCollection)}
}

type mongoContract struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Reference     string               `bson:"reference"`
	Title         string               `bson:"title"`
	Crop          string               `bson:"crop"`
	QuantityKg    float64              `bson:"quantity_kg"`
	PricePerKg    float64              `bson:"price_per_kg"`
	Currency      string               `bson:"currency"`
	CompanyID     string               `bson:"company_id"`
	FarmerID      string               `bson:"farmer_id,omitempty"`
	Status        string               `bson:"status"`
	StatusHistory []domain.StatusEntry `bson:"status_history,omitempty"`
	DeliveryBy    time.Time            `bson:"delivery_by"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	doc := mongoContract{
		Reference:     contract.Reference,
		Title:         contract.Title,
		Crop:          contract.Crop,
		QuantityKg:    contract.QuantityKg,
		PricePerKg:    contract.PricePerKg,
		Currency:      contract.Currency,
		CompanyID:     contract.CompanyID,
		FarmerID:      contract.FarmerID,
		Status:        string(contract.Status),
		StatusHistory: contract.StatusHistory,
		DeliveryBy:    contract.DeliveryBy.UTC(),
		CreatedAt:     contract.CreatedAt.UTC(),
		UpdatedAt:     contract.UpdatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		contract.ID = oid.Hex()
	}
	return nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id string) (*domain.Contract, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrContractNotFound
	}

	var mc mongoContract
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrContractNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}
	return toDomainContract(mc), nil
}

func (r *ContractRepository) List(ctx context.Context, filter ports.ListContractsFilter) ([]*domain.Contract, int64, error) {
	query := bson.M{}
	if filter.CompanyID != "" {
		query["company_id"] = filter.CompanyID
	}
	if filter.FarmerID != "" {
		query["farmer_id"] = filter.FarmerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Crop != "" {
		query["crop"] = filter.Crop
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count contracts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list contracts: %w", err)
	}
	defer cursor.Close(ctx)

	var contracts []*domain.Contract
	for cursor.Next(ctx) {
		var mc mongoContract
		if err := cursor.Decode(&mc); err != nil {
			return nil, 0, fmt.Errorf("decode contract: %w", err)
		}
		contracts = append(contracts, toDomainContract(mc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, total, nil
}

// UpdateStatus atomically sets the contract status and appends a history entry.
func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus, entry domain.StatusEntry) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrContractNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set":  bson.M{"status": string(status), "updated_at": time.Now().UTC()},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}

// Claim assigns the farmer and flips the offer to accepted in one
// conditional write; only one of several racing farmers can match.
func (r *ContractRepository) Claim(ctx context.Context, id, farmerID string, entry domain.StatusEntry) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrContractNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":       oid,
			"status":    string(domain.ContractOffered),
			"farmer_id": bson.M{"$in": []interface{}{nil, ""}},
		},
		bson.M{
			"$set": bson.M{
				"farmer_id":  farmerID,
				"status":     string(domain.ContractAccepted),
				"updated_at": time.Now().UTC(),
			},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return fmt.Errorf("claim contract: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the contract is gone or the offer is no longer open.
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func toDomainContract(mc mongoContract) *domain.Contract {
	return &domain.Contract{
		ID:            mc.ID.Hex(),
		Reference:     mc.Reference,
		Title:         mc.Title,
		Crop:          mc.Crop,
		QuantityKg:    mc.QuantityKg,
		PricePerKg:    mc.PricePerKg,
		Currency:      mc.Currency,
		CompanyID:     mc.CompanyID,
		FarmerID:      mc.FarmerID,
		Status:        domain.ContractStatus(mc.Status),
		StatusHistory: mc.StatusHistory,
		DeliveryBy:    mc.DeliveryBy,
		CreatedAt:     mc.CreatedAt,
		UpdatedAt:     mc.UpdatedAt,
	}
}
