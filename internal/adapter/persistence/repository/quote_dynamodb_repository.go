package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/entities"
	"quotebuilder/internal/usecase/interfaces"
)

const defaultQuotesTableName = "quotes"

type priceQuantityItem struct {
	Quantity int    `dynamodbav:"quantity"`
	Price    string `dynamodbav:"price"`
}

type quotePartItem struct {
	ID              string              `dynamodbav:"id"`
	PartName        string              `dynamodbav:"part_name"`
	MOQ             int                 `dynamodbav:"moq"`
	PriceQuantities []priceQuantityItem `dynamodbav:"price_quantities"`
}

type quoteItem struct {
	ID          string          `dynamodbav:"id"`
	ClientName  string          `dynamodbav:"client_name"`
	QuoteNumber string          `dynamodbav:"quote_number"`
	Currency    string          `dynamodbav:"currency"`
	ValidUntil  string          `dynamodbav:"valid_until"`
	Status      string          `dynamodbav:"status"`
	Parts       []quotePartItem `dynamodbav:"parts"`
	CreatedAt   string          `dynamodbav:"created_at"`
	UpdatedAt   string          `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote aggregates in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Prices are stored as string attributes so no precision is lost between
// the decimal domain values and the wire.

type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTES_TABLE", defaultQuotesTableName),
	}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, form entities.QuoteFormData) (entities.Quote, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	q := entities.Quote{
		ID:          id,
		ClientName:  form.ClientName,
		QuoteNumber: quoteNumberFromID(id, now),
		Currency:    form.Currency,
		ValidUntil:  form.ValidUntil,
		Status:      entities.QuoteStatusDraft,
		Parts:       entities.CloneParts(form.Parts),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
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
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) List(ctx context.Context, filter interfaces.ListFilter) ([]entities.Quote, error) {
	in := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}

	exprs := make([]string, 0, 2)
	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)
	// EXPIRED is derived, never stored; resolve it post-scan instead.
	if filter.Status != "" && filter.Status != entities.QuoteStatusExpired {
		exprs = append(exprs, "#status = :status")
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
	}
	if filter.ClientName != "" {
		exprs = append(exprs, "contains(#client_name, :client_name)")
		names["#client_name"] = "client_name"
		values[":client_name"] = &types.AttributeValueMemberS{Value: filter.ClientName}
	}
	if len(exprs) > 0 {
		in.FilterExpression = aws.String(strings.Join(exprs, " AND "))
		in.ExpressionAttributeNames = names
		in.ExpressionAttributeValues = values
	}

	quotes := make([]entities.Quote, 0)
	now := time.Now().UTC()
	paginator := dynamodb.NewScanPaginator(r.ddb, in)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it quoteItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			q := fromQuoteItem(it)
			if filter.Status == entities.QuoteStatusExpired && !q.IsExpired(now) {
				continue
			}
			quotes = append(quotes, q)
		}
	}

	return paginate(quotes, filter.Page, filter.Limit), nil
}

func (r *QuoteDynamoRepository) Update(ctx context.Context, id string, form entities.QuoteFormData) (entities.Quote, error) {
	partAVs, err := attributevalue.MarshalList(toQuotePartItems(form.Parts))
	if err != nil {
		return entities.Quote{}, err
	}

	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #client_name = :client_name, #currency = :currency, #valid_until = :valid_until, #parts = :parts, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":client_name": &types.AttributeValueMemberS{Value: form.ClientName},
			":currency":    &types.AttributeValueMemberS{Value: string(form.Currency)},
			":valid_until": &types.AttributeValueMemberS{Value: form.ValidUntil.UTC().Format(time.RFC3339Nano)},
			":parts":       &types.AttributeValueMemberL{Value: partAVs},
			":updated_at":  &types.AttributeValueMemberS{Value: now},
		}
		attrNames := map[string]string{
			"#client_name": "client_name",
			"#currency":    "currency",
			"#valid_until": "valid_until",
			"#parts":       "parts",
			"#updated_at":  "updated_at",
		}
		return expr, vals, attrNames
	})
}

func (r *QuoteDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		attrNames := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		}
		return expr, vals, attrNames
	})
}

func (r *QuoteDynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return err
}

func (r *QuoteDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Quote, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updateExpr, values, names := build(now)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quote{}, nil
		}
		return entities.Quote{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Quote{}, nil
	}
	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

// quoteNumberFromID derives a human-facing quote number. DynamoDB has no
// cheap global counter, so the number embeds the year and a slice of the id.
func quoteNumberFromID(id string, now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Q-%d-%s", now.Year(), short)
}

func toQuoteItem(q entities.Quote) quoteItem {
	return quoteItem{
		ID:          q.ID,
		ClientName:  q.ClientName,
		QuoteNumber: q.QuoteNumber,
		Currency:    string(q.Currency),
		ValidUntil:  q.ValidUntil.UTC().Format(time.RFC3339Nano),
		Status:      string(q.Status),
		Parts:       toQuotePartItems(q.Parts),
		CreatedAt:   q.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   q.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toQuotePartItems(parts []entities.QuotePart) []quotePartItem {
	items := make([]quotePartItem, 0, len(parts))
	for _, p := range parts {
		it := quotePartItem{ID: p.ID, PartName: p.PartName, MOQ: p.MOQ}
		for _, pq := range p.PriceQuantities {
			it.PriceQuantities = append(it.PriceQuantities, priceQuantityItem{
				Quantity: pq.Quantity,
				Price:    pq.Price.String(),
			})
		}
		items = append(items, it)
	}
	return items
}

func fromQuoteItem(it quoteItem) entities.Quote {
	validUntil, _ := time.Parse(time.RFC3339Nano, it.ValidUntil)
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)

	parts := make([]entities.QuotePart, 0, len(it.Parts))
	for _, pi := range it.Parts {
		p := entities.QuotePart{ID: pi.ID, PartName: pi.PartName, MOQ: pi.MOQ}
		for _, pq := range pi.PriceQuantities {
			price, _ := decimal.NewFromString(pq.Price)
			p.PriceQuantities = append(p.PriceQuantities, entities.PriceQuantity{
				Quantity: pq.Quantity,
				Price:    price,
			})
		}
		parts = append(parts, p)
	}

	return entities.Quote{
		ID:          it.ID,
		ClientName:  it.ClientName,
		QuoteNumber: it.QuoteNumber,
		Currency:    entities.Currency(it.Currency),
		ValidUntil:  validUntil,
		Status:      entities.QuoteStatus(it.Status),
		Parts:       parts,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
