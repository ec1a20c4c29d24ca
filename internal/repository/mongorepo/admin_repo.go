package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yog-Raj-sharma/employee-details/internal/model"
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
)

type adminDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d *adminDoc) toModel() *model.Admin {
	return &model.Admin{
		AdminID:      d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// adminRepo AdminRepository 的 MongoDB 实现
type adminRepo struct {
	coll *mongo.Collection
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(coll *mongo.Collection) repository.AdminRepository {
	return &adminRepo{coll: coll}
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	doc := adminDoc{
		ID:           primitive.NewObjectID(),
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    admin.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translateError(err)
	}
	admin.AdminID = doc.ID.Hex()
	admin.CreatedAt = doc.CreatedAt
	return nil
}

func (r *adminRepo) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *adminRepo) findOne(ctx context.Context, filter bson.M) (*model.Admin, error) {
	var doc adminDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toModel(), nil
}
