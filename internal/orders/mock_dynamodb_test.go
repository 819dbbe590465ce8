package orders

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo stores items per table keyed by order_id and understands the
// handful of expressions the store issues.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[name]; !ok {
		m.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[name]
}

func pkOf(item map[string]types.AttributeValue) (string, error) {
	v, ok := item["order_id"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("no order_id")
	}
	return v.Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(in.Item)
	if err != nil {
		return nil, err
	}
	tbl := m.table(*in.TableName)
	if in.ConditionExpression != nil && *in.ConditionExpression == "attribute_not_exists(order_id)" {
		if _, exists := tbl[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	tbl[pk] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, in *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(in.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table(*in.TableName)[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, in *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(in.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table(*in.TableName)[pk]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if in.ConditionExpression != nil && *in.ConditionExpression == "#s = :expected" {
		curr, _ := item["status"].(*types.AttributeValueMemberS)
		want := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		if curr == nil || curr.Value != want {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	for _, assign := range splitAssignments(*in.UpdateExpression) {
		parts := strings.SplitN(assign, " = ", 2)
		name := parts[0]
		if alias, ok := in.ExpressionAttributeNames[name]; ok {
			name = alias
		}
		rhs := parts[1]
		if strings.HasPrefix(rhs, "if_not_exists") {
			// if_not_exists(attr, :zero) + :inc
			n := 0
			if curr, ok := item[name].(*types.AttributeValueMemberN); ok {
				n, _ = strconv.Atoi(curr.Value)
			}
			inc, _ := strconv.Atoi(in.ExpressionAttributeValues[":inc"].(*types.AttributeValueMemberN).Value)
			item[name] = &types.AttributeValueMemberN{Value: strconv.Itoa(n + inc)}
			continue
		}
		item[name] = in.ExpressionAttributeValues[rhs]
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, in *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(in.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table(*in.TableName), pk)
	return &dyn.DeleteItemOutput{}, nil
}

// splitAssignments splits "SET a = :x, b = if_not_exists(b, :z) + :i" into
// its assignments, keeping function arguments together.
func splitAssignments(expr string) []string {
	var out []string
	for _, chunk := range strings.Split(strings.TrimPrefix(expr, "SET "), ", ") {
		if !strings.Contains(chunk, " = ") && len(out) > 0 {
			out[len(out)-1] += ", " + chunk
			continue
		}
		out = append(out, chunk)
	}
	return out
}
