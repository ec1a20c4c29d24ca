package mongorepo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yog-Raj-sharma/employee-details/internal/model"
	"github.com/yog-Raj-sharma/employee-details/internal/repository"
	pkgerrors "github.com/yog-Raj-sharma/employee-details/pkg/errors"
)

// employeeDoc employees 集合文档
type employeeDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	EmployeeID int                `bson:"employeeId"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Phone      string             `bson:"phone"`
	Position   string             `bson:"position"`
	Department string             `bson:"department"`
	Gender     string             `bson:"gender"`
	Courses    []string           `bson:"courses"`
	ImagePath  string             `bson:"imagePath"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d *employeeDoc) toModel() *model.Employee {
	courses := make(model.StringArray, 0, len(d.Courses))
	courses = append(courses, d.Courses...)
	return &model.Employee{
		ID:         d.ID.Hex(),
		EmployeeID: d.EmployeeID,
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Position:   model.Position(d.Position),
		Department: d.Department,
		Gender:     model.Gender(d.Gender),
		Courses:    courses,
		ImagePath:  d.ImagePath,
		CreatedAt:  d.CreatedAt,
	}
}

// mutableFields 可被 Update 覆盖的字段
func mutableFields(emp *model.Employee) bson.M {
	courses := []string(emp.Courses)
	if courses == nil {
		courses = []string{}
	}
	return bson.M{
		"name":       emp.Name,
		"email":      emp.Email,
		"phone":      emp.Phone,
		"position":   string(emp.Position),
		"department": emp.Department,
		"gender":     string(emp.Gender),
		"courses":    courses,
		"imagePath":  emp.ImagePath,
	}
}

// employeeRepo EmployeeRepository 的 MongoDB 实现
type employeeRepo struct {
	coll *mongo.Collection
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(coll *mongo.Collection) repository.EmployeeRepository {
	return &employeeRepo{coll: coll}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now()
	}
	doc := bson.M{
		"_id":        primitive.NewObjectID(),
		"employeeId": emp.EmployeeID,
		"createdAt":  emp.CreatedAt,
	}
	for k, v := range mutableFields(emp) {
		doc[k] = v
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translateError(err)
	}
	emp.ID = doc["_id"].(primitive.ObjectID).Hex()
	return nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *employeeRepo) findOne(ctx context.Context, filter bson.M) (*model.Employee, error) {
	var doc employeeDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toModel(), nil
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	return r.find(ctx, bson.M{})
}

// Search 在姓名、邮箱、职位、性别及课程数组中做不区分大小写的字面子串匹配
func (r *employeeRepo) Search(ctx context.Context, query string) ([]model.Employee, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"email": re},
		bson.M{"position": re},
		bson.M{"gender": re},
		bson.M{"courses": re},
	}}
	return r.find(ctx, filter)
}

func (r *employeeRepo) find(ctx context.Context, filter bson.M) ([]model.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "employeeId", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	emps := make([]model.Employee, 0)
	for cur.Next(ctx) {
		var doc employeeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		emps = append(emps, *doc.toModel())
	}
	return emps, cur.Err()
}

// Update 覆盖可变字段；employeeId 与 createdAt 不参与更新
func (r *employeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	oid, err := parseID(emp.ID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": mutableFields(emp)})
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

// Delete 物理删除并返回被删除的文档
func (r *employeeRepo) Delete(ctx context.Context, id string) (*model.Employee, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc employeeDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toModel(), nil
}

func (r *employeeRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	filter := bson.M{"email": email}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *employeeRepo) MaxEmployeeID(ctx context.Context) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "employeeId", Value: -1}}).
		SetProjection(bson.M{"employeeId": 1})
	var doc struct {
		EmployeeID int `bson:"employeeId"`
	}
	err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.EmployeeID, nil
}
