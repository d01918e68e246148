package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultOrdersTableName = "service_orders"
	ordersDriverIDIndex    = "driver_id-index"
	ordersWorkshopIDIndex  = "workshop_id-index"
)

type serviceOrderItem struct {
	ID       string `dynamodbav:"id"`
	Revision int64  `dynamodbav:"revision"`

	DriverID      string `dynamodbav:"driver_id"`
	DriverName    string `dynamodbav:"driver_name"`
	DriverPhone   string `dynamodbav:"driver_phone,omitempty"`
	WorkshopID    string `dynamodbav:"workshop_id"`
	WorkshopName  string `dynamodbav:"workshop_name"`
	WorkshopPhone string `dynamodbav:"workshop_phone,omitempty"`

	ServiceName        string `dynamodbav:"service_name"`
	ServiceDescription string `dynamodbav:"service_description,omitempty"`
	Price              string `dynamodbav:"price,omitempty"`
	PaymentMethod      string `dynamodbav:"payment_method"`
	Vehicle            string `dynamodbav:"vehicle"`
	VehiclePlate       string `dynamodbav:"vehicle_plate,omitempty"`

	Date   string `dynamodbav:"date"`
	Status string `dynamodbav:"status"`

	ScheduleDate         string `dynamodbav:"schedule_date,omitempty"`
	ScheduleTime         string `dynamodbav:"schedule_time,omitempty"`
	ScheduleStatus       string `dynamodbav:"schedule_status,omitempty"`
	WorkshopProposedDate string `dynamodbav:"workshop_proposed_date,omitempty"`
	WorkshopProposedTime string `dynamodbav:"workshop_proposed_time,omitempty"`

	CompletionPhotoWorkshop string `dynamodbav:"completion_photo_workshop,omitempty"`
	CompletionPhotoDriver   string `dynamodbav:"completion_photo_driver,omitempty"`
	Rating                  int    `dynamodbav:"rating,omitempty"`
	Review                  string `dynamodbav:"review,omitempty"`

	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// ServiceOrderDynamoRepository persists ServiceOrder entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: driver_id-index   (PK: driver_id,   SK: created_at)
//   - GSI: workshop_id-index (PK: workshop_id, SK: created_at)
//
// Every mutation is a conditional write on the revision the caller read, so
// two parties polling the same order cannot silently overwrite each other.

type ServiceOrderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IServiceOrderRepository = (*ServiceOrderDynamoRepository)(nil)

func NewServiceOrderDynamoRepository(ddb *dynamodb.Client) *ServiceOrderDynamoRepository {
	return &ServiceOrderDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ORDERS_TABLE", defaultOrdersTableName),
	}
}

func (r *ServiceOrderDynamoRepository) Create(ctx context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error) {
	it := toServiceOrderItem(o)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.ServiceOrder{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.ServiceOrder{}, interfaces.ErrRevisionConflict
		}
		return entities.ServiceOrder{}, storeErr(err)
	}
	return o, nil
}

func (r *ServiceOrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.ServiceOrder, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ServiceOrder{}, storeErr(err)
	}
	if len(out.Item) == 0 {
		return entities.ServiceOrder{}, nil
	}

	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it), nil
}

func (r *ServiceOrderDynamoRepository) ListByActor(ctx context.Context, actorID string, role entities.ActorRole) ([]entities.ServiceOrder, error) {
	indexName, keyAttr := ordersDriverIDIndex, "driver_id"
	if role == entities.ActorRoleOficina {
		indexName, keyAttr = ordersWorkshopIDIndex, "workshop_id"
	}

	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String(keyAttr + " = :actor"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":actor": &types.AttributeValueMemberS{Value: actorID},
		},
		// Sort key is created_at; newest orders come first.
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, storeErr(err)
	}

	items := make([]entities.ServiceOrder, 0, len(out.Items))
	for _, raw := range out.Items {
		var it serviceOrderItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromServiceOrderItem(it))
	}
	return items, nil
}

func (r *ServiceOrderDynamoRepository) UpdateStatus(ctx context.Context, id string, revision int64, status entities.OrderStatus, patch entities.OrderPatch) (entities.ServiceOrder, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	sets := []string{
		"#status = :status",
		"#revision = :next_revision",
		"#updated_at = :updated_at",
	}
	removes := []string{}
	names := map[string]string{
		"#id":         "id",
		"#status":     "status",
		"#revision":   "revision",
		"#updated_at": "updated_at",
	}
	values := map[string]types.AttributeValue{
		":status":        &types.AttributeValueMemberS{Value: string(status)},
		":revision":      &types.AttributeValueMemberN{Value: strconv.FormatInt(revision, 10)},
		":next_revision": &types.AttributeValueMemberN{Value: strconv.FormatInt(revision+1, 10)},
		":updated_at":    &types.AttributeValueMemberS{Value: now},
	}

	setStr := func(attr, placeholder, value string) {
		sets = append(sets, "#"+placeholder+" = :"+placeholder)
		names["#"+placeholder] = attr
		values[":"+placeholder] = &types.AttributeValueMemberS{Value: value}
	}
	if patch.ScheduleDate != nil {
		setStr("schedule_date", "schedule_date", *patch.ScheduleDate)
	}
	if patch.ScheduleTime != nil {
		setStr("schedule_time", "schedule_time", *patch.ScheduleTime)
	}
	if patch.ScheduleStatus != nil {
		setStr("schedule_status", "schedule_status", string(*patch.ScheduleStatus))
	}
	if patch.ClearWorkshopProposal {
		removes = append(removes, "#workshop_proposed_date", "#workshop_proposed_time")
		names["#workshop_proposed_date"] = "workshop_proposed_date"
		names["#workshop_proposed_time"] = "workshop_proposed_time"
	} else {
		if patch.WorkshopProposedDate != nil {
			setStr("workshop_proposed_date", "workshop_proposed_date", *patch.WorkshopProposedDate)
		}
		if patch.WorkshopProposedTime != nil {
			setStr("workshop_proposed_time", "workshop_proposed_time", *patch.WorkshopProposedTime)
		}
	}
	if patch.CompletionPhotoWorkshop != nil {
		setStr("completion_photo_workshop", "completion_photo_workshop", *patch.CompletionPhotoWorkshop)
	}

	expr := "SET " + joinExpr(sets)
	if len(removes) > 0 {
		expr += " REMOVE " + joinExpr(removes)
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id) AND #revision = :revision"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return r.resolveConflict(ctx, id, false)
		}
		return entities.ServiceOrder{}, storeErr(err)
	}

	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it), nil
}

func (r *ServiceOrderDynamoRepository) AddReview(ctx context.Context, id string, revision int64, rating int, review, photo string) (entities.ServiceOrder, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #revision = :revision AND attribute_not_exists(#rating)"),
		UpdateExpression: aws.String(
			"SET #rating = :rating, #review = :review, #completion_photo_driver = :photo, #revision = :next_revision, #updated_at = :updated_at",
		),
		ExpressionAttributeNames: map[string]string{
			"#id":                      "id",
			"#rating":                  "rating",
			"#review":                  "review",
			"#completion_photo_driver": "completion_photo_driver",
			"#revision":                "revision",
			"#updated_at":              "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rating":        &types.AttributeValueMemberN{Value: strconv.Itoa(rating)},
			":review":        &types.AttributeValueMemberS{Value: review},
			":photo":         &types.AttributeValueMemberS{Value: photo},
			":revision":      &types.AttributeValueMemberN{Value: strconv.FormatInt(revision, 10)},
			":next_revision": &types.AttributeValueMemberN{Value: strconv.FormatInt(revision+1, 10)},
			":updated_at":    &types.AttributeValueMemberS{Value: now},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return r.resolveConflict(ctx, id, true)
		}
		return entities.ServiceOrder{}, storeErr(err)
	}

	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it), nil
}

// resolveConflict disambiguates a failed conditional write: the item may be
// missing, already reviewed, or written at a newer revision.
func (r *ServiceOrderDynamoRepository) resolveConflict(ctx context.Context, id string, reviewWrite bool) (entities.ServiceOrder, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if current.ID == "" {
		return entities.ServiceOrder{}, nil
	}
	if reviewWrite && current.Reviewed() {
		return entities.ServiceOrder{}, interfaces.ErrReviewExists
	}
	return entities.ServiceOrder{}, interfaces.ErrRevisionConflict
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
}

func joinExpr(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func toServiceOrderItem(o entities.ServiceOrder) serviceOrderItem {
	price := ""
	if o.Price != nil {
		price = floatToString(*o.Price)
	}
	return serviceOrderItem{
		ID:                      o.ID,
		Revision:                o.Revision,
		DriverID:                o.DriverID,
		DriverName:              o.DriverName,
		DriverPhone:             o.DriverPhone,
		WorkshopID:              o.WorkshopID,
		WorkshopName:            o.WorkshopName,
		WorkshopPhone:           o.WorkshopPhone,
		ServiceName:             o.ServiceName,
		ServiceDescription:      o.ServiceDescription,
		Price:                   price,
		PaymentMethod:           string(o.PaymentMethod),
		Vehicle:                 o.Vehicle,
		VehiclePlate:            o.VehiclePlate,
		Date:                    o.Date,
		Status:                  string(o.Status),
		ScheduleDate:            o.ScheduleDate,
		ScheduleTime:            o.ScheduleTime,
		ScheduleStatus:          string(o.ScheduleStatus),
		WorkshopProposedDate:    o.WorkshopProposedDate,
		WorkshopProposedTime:    o.WorkshopProposedTime,
		CompletionPhotoWorkshop: o.CompletionPhotoWorkshop,
		CompletionPhotoDriver:   o.CompletionPhotoDriver,
		Rating:                  o.Rating,
		Review:                  o.Review,
		CreatedAt:               o.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:               o.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromServiceOrderItem(it serviceOrderItem) entities.ServiceOrder {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	var price *float64
	if it.Price != "" {
		if v, err := strconv.ParseFloat(it.Price, 64); err == nil {
			price = &v
		}
	}
	return entities.ServiceOrder{
		ID:                      it.ID,
		Revision:                it.Revision,
		DriverID:                it.DriverID,
		DriverName:              it.DriverName,
		DriverPhone:             it.DriverPhone,
		WorkshopID:              it.WorkshopID,
		WorkshopName:            it.WorkshopName,
		WorkshopPhone:           it.WorkshopPhone,
		ServiceName:             it.ServiceName,
		ServiceDescription:      it.ServiceDescription,
		Price:                   price,
		PaymentMethod:           entities.PaymentMethod(it.PaymentMethod),
		Vehicle:                 it.Vehicle,
		VehiclePlate:            it.VehiclePlate,
		Date:                    it.Date,
		Status:                  entities.OrderStatus(it.Status),
		ScheduleDate:            it.ScheduleDate,
		ScheduleTime:            it.ScheduleTime,
		ScheduleStatus:          entities.ScheduleStatus(it.ScheduleStatus),
		WorkshopProposedDate:    it.WorkshopProposedDate,
		WorkshopProposedTime:    it.WorkshopProposedTime,
		CompletionPhotoWorkshop: it.CompletionPhotoWorkshop,
		CompletionPhotoDriver:   it.CompletionPhotoDriver,
		Rating:                  it.Rating,
		Review:                  it.Review,
		CreatedAt:               createdAt,
		UpdatedAt:               updatedAt,
	}
}
