package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

const collectionItems = "items"

type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection(collectionItems)}
}

type mongoPurchase struct {
	Date   *time.Time `bson:"date,omitempty"`
	Price  float64    `bson:"price"`
	Vendor string     `bson:"vendor,omitempty"`
}

type mongoWarranty struct {
	Expires  *time.Time `bson:"expires,omitempty"`
	Provider string     `bson:"provider,omitempty"`
	Notes    string     `bson:"notes,omitempty"`
}

type mongoLoan struct {
	Borrower   string     `bson:"borrower"`
	LoanedAt   time.Time  `bson:"loaned_at"`
	DueAt      *time.Time `bson:"due_at,omitempty"`
	ReturnedAt *time.Time `bson:"returned_at,omitempty"`
	Notes      string     `bson:"notes,omitempty"`
}

type mongoCustomField struct {
	Name  string `bson:"name"`
	Value string `bson:"value"`
}

type mongoItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	GroupID      string             `bson:"group_id"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description,omitempty"`
	LocationID   string             `bson:"location_id"`
	CategoryID   string             `bson:"category_id"`
	LabelIDs     []string           `bson:"label_ids"`
	Quantity     int                `bson:"quantity"`
	AssetID      string             `bson:"asset_id,omitempty"`
	SerialNumber string             `bson:"serial_number,omitempty"`
	Model        string             `bson:"model,omitempty"`
	Manufacturer string             `bson:"manufacturer,omitempty"`
	Notes        string             `bson:"notes,omitempty"`
	Purchase     mongoPurchase      `bson:"purchase"`
	Warranty     mongoWarranty      `bson:"warranty"`
	Loan         *mongoLoan         `bson:"loan"`
	LoanHistory  []mongoLoan        `bson:"loan_history,omitempty"`
	CustomFields []mongoCustomField `bson:"custom_fields,omitempty"`
	Archived     bool               `bson:"archived"`
	CreatedBy    string             `bson:"created_by,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toLoanDoc(l domain.Loan) mongoLoan {
	return mongoLoan{Borrower: l.Borrower, LoanedAt: l.LoanedAt, DueAt: l.DueAt, ReturnedAt: l.ReturnedAt, Notes: l.Notes}
}

func (l mongoLoan) toDomain() domain.Loan {
	return domain.Loan{Borrower: l.Borrower, LoanedAt: l.LoanedAt.UTC(), DueAt: l.DueAt, ReturnedAt: l.ReturnedAt, Notes: l.Notes}
}

func toItemDoc(it *domain.Item) mongoItem {
	doc := mongoItem{
		GroupID:      it.GroupID,
		Name:         it.Name,
		Description:  it.Description,
		LocationID:   it.LocationID,
		CategoryID:   it.CategoryID,
		LabelIDs:     it.LabelIDs,
		Quantity:     it.Quantity,
		AssetID:      it.AssetID,
		SerialNumber: it.SerialNumber,
		Model:        it.Model,
		Manufacturer: it.Manufacturer,
		Notes:        it.Notes,
		Purchase:     mongoPurchase{Date: it.Purchase.Date, Price: it.Purchase.Price, Vendor: it.Purchase.Vendor},
		Warranty:     mongoWarranty{Expires: it.Warranty.Expires, Provider: it.Warranty.Provider, Notes: it.Warranty.Notes},
		Archived:     it.Archived,
		CreatedBy:    it.CreatedBy,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
	if doc.LabelIDs == nil {
		doc.LabelIDs = []string{}
	}
	if it.Loan != nil {
		l := toLoanDoc(*it.Loan)
		doc.Loan = &l
	}
	for _, l := range it.LoanHistory {
		doc.LoanHistory = append(doc.LoanHistory, toLoanDoc(l))
	}
	for _, f := range it.CustomFields {
		doc.CustomFields = append(doc.CustomFields, mongoCustomField{Name: f.Name, Value: f.Value})
	}
	return doc
}

func (d mongoItem) toDomain() *domain.Item {
	it := &domain.Item{
		ID:           d.ID.Hex(),
		GroupID:      d.GroupID,
		Name:         d.Name,
		Description:  d.Description,
		LocationID:   d.LocationID,
		CategoryID:   d.CategoryID,
		LabelIDs:     d.LabelIDs,
		Quantity:     d.Quantity,
		AssetID:      d.AssetID,
		SerialNumber: d.SerialNumber,
		Model:        d.Model,
		Manufacturer: d.Manufacturer,
		Notes:        d.Notes,
		Purchase:     domain.Purchase{Date: d.Purchase.Date, Price: d.Purchase.Price, Vendor: d.Purchase.Vendor},
		Warranty:     domain.Warranty{Expires: d.Warranty.Expires, Provider: d.Warranty.Provider, Notes: d.Warranty.Notes},
		Archived:     d.Archived,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if it.LabelIDs == nil {
		it.LabelIDs = []string{}
	}
	if d.Loan != nil {
		l := d.Loan.toDomain()
		it.Loan = &l
	}
	for _, l := range d.LoanHistory {
		it.LoanHistory = append(it.LoanHistory, l.toDomain())
	}
	for _, f := range d.CustomFields {
		it.CustomFields = append(it.CustomFields, domain.CustomField{Name: f.Name, Value: f.Value})
	}
	return it
}

// EnsureIndexes creates the group-scoped indexes used by listings and filters.
func (r *ItemRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "archived", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "location_id", Value: 1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "label_ids", Value: 1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "asset_id", Value: 1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "warranty.expires", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toItemDoc(item)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	item.ID = doc.ID.Hex()
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, groupID, id string) (*domain.Item, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoItem
	err := r.col.FindOne(ctx, bson.M{"_id": oid, "group_id": groupID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	oid, ok := objectID(item.ID)
	if !ok {
		return domain.ErrItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toItemDoc(item)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid, "group_id": item.GroupID}, doc)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, groupID, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "group_id": groupID})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// itemFilter translates f into a query document. Search terms are quoted so
// user input never acts as a pattern.
func itemFilter(f ports.ItemFilter) bson.M {
	filter := bson.M{"group_id": f.GroupID}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"asset_id": pattern},
			bson.M{"serial_number": pattern},
		}
	}
	if len(f.LocationIDs) > 0 {
		filter["location_id"] = bson.M{"$in": f.LocationIDs}
	}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.LabelID != "" {
		filter["label_ids"] = f.LabelID
	}
	if f.Archived != nil {
		filter["archived"] = *f.Archived
	}
	if f.OnLoan != nil {
		if *f.OnLoan {
			filter["loan.borrower"] = bson.M{"$exists": true}
		} else {
			filter["loan"] = nil
		}
	}

	warranty := bson.M{}
	if !f.WarrantyExpiresAfter.IsZero() {
		warranty["$gte"] = f.WarrantyExpiresAfter
	}
	if !f.WarrantyExpiresBefore.IsZero() {
		warranty["$lte"] = f.WarrantyExpiresBefore
	}
	if len(warranty) > 0 {
		filter["warranty.expires"] = warranty
	}
	return filter
}

var itemSortFields = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (r *ItemRepository) List(ctx context.Context, f ports.ItemFilter) ([]*domain.Item, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := itemFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	field, ok := itemSortFields[f.Sort]
	if !ok {
		field = "created_at"
	}
	dir := 1
	if f.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}})
	if field == "name" {
		opts.SetCollation(caseInsensitive)
	}
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoItem
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode items: %w", err)
	}
	items := make([]*domain.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

func (r *ItemRepository) Count(ctx context.Context, f ports.ItemFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, itemFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (r *ItemRepository) TotalValue(ctx context.Context, groupID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"group_id": groupID, "archived": false}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"total": bson.M{"$sum": bson.M{"$multiply": bson.A{
				"$quantity",
				bson.M{"$ifNull": bson.A{"$purchase.price", 0}},
			}}},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate item value: %w", err)
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, fmt.Errorf("decode item value: %w", err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (r *ItemRepository) CountLoansEver(ctx context.Context, groupID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"$or": bson.A{
			bson.M{"loan.borrower": bson.M{"$exists": true}},
			bson.M{"loan_history.0": bson.M{"$exists": true}},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return n, nil
}

func (r *ItemRepository) updateMany(ctx context.Context, filter, update bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *ItemRepository) MoveLocation(ctx context.Context, groupID, fromLocationID, toLocationID string) (int64, error) {
	n, err := r.updateMany(ctx,
		bson.M{"group_id": groupID, "location_id": fromLocationID},
		bson.M{"$set": bson.M{"location_id": toLocationID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("move items between locations: %w", err)
	}
	return n, nil
}

func (r *ItemRepository) MoveItems(ctx context.Context, groupID string, ids []string, locationID string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}
	n, err := r.updateMany(ctx,
		bson.M{"group_id": groupID, "_id": bson.M{"$in": oids}},
		bson.M{"$set": bson.M{"location_id": locationID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("move items: %w", err)
	}
	return n, nil
}

func (r *ItemRepository) RemoveLabel(ctx context.Context, groupID, labelID string) (int64, error) {
	n, err := r.updateMany(ctx,
		bson.M{"group_id": groupID, "label_ids": labelID},
		bson.M{"$pull": bson.M{"label_ids": labelID}},
	)
	if err != nil {
		return 0, fmt.Errorf("remove label from items: %w", err)
	}
	return n, nil
}
