package recordstore

import (
	"fmt"
	"medblock-service/internal/app/contracts"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const fieldID = "_id"

// BuildFilter translates predicates into a mongo filter. Predicates are
// ANDed; an empty list matches everything.
func BuildFilter(predicates []contracts.Predicate) (bson.M, error) {
	if len(predicates) == 0 {
		return bson.M{}, nil
	}

	clauses := make([]bson.M, 0, len(predicates))
	for _, p := range predicates {
		clause, err := buildClause(p)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return bson.M{"$and": clauses}, nil
}

func buildClause(p contracts.Predicate) (bson.M, error) {
	if p.Operator == contracts.OpAny {
		if len(p.Any) == 0 {
			return nil, fmt.Errorf("operator %s needs at least one alternative", p.Operator)
		}
		alternatives := make([]bson.M, 0, len(p.Any))
		for _, alt := range p.Any {
			clause, err := buildClause(alt)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, clause)
		}
		return bson.M{"$or": alternatives}, nil
	}

	if p.Field == "" {
		return nil, fmt.Errorf("operator %s needs a field", p.Operator)
	}

	value, err := normalizeValue(p.Field, p.Value)
	if err != nil {
		return nil, err
	}

	switch p.Operator {
	case contracts.OpEq:
		return bson.M{p.Field: value}, nil
	case contracts.OpNe:
		return bson.M{p.Field: bson.M{"$ne": value}}, nil
	case contracts.OpGte:
		return bson.M{p.Field: bson.M{"$gte": value}}, nil
	case contracts.OpLt:
		return bson.M{p.Field: bson.M{"$lt": value}}, nil
	case contracts.OpLte:
		return bson.M{p.Field: bson.M{"$lte": value}}, nil
	case contracts.OpIn:
		return bson.M{p.Field: bson.M{"$in": value}}, nil
	case contracts.OpContains:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("operator %s on %s needs a string", p.Operator, p.Field)
		}
		return bson.M{p.Field: primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %q", p.Operator)
	}
}

// normalizeValue turns hex strings on _id into object ids.
func normalizeValue(field string, value interface{}) (interface{}, error) {
	if field != fieldID {
		return value, nil
	}

	switch v := value.(type) {
	case string:
		return primitive.ObjectIDFromHex(v)
	case []string:
		ids := make([]primitive.ObjectID, 0, len(v))
		for _, hex := range v {
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	default:
		return value, nil
	}
}

func BuildSort(sort []contracts.SortField) bson.D {
	out := make(bson.D, 0, len(sort))
	for _, s := range sort {
		out = append(out, bson.E{Key: s.Field, Value: int(s.Direction)})
	}
	return out
}
