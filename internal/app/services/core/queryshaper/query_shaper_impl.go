package queryshaper

import (
	"fmt"
	"math"
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	fieldID = "_id"
	maxAge  = 150
)

var reservedKeys = map[string]struct{}{
	constvars.QueryParamPage:        {},
	constvars.QueryParamLimit:       {},
	constvars.QueryParamSortBy:      {},
	constvars.QueryParamSortOrder:   {},
	constvars.QueryParamSortLegacy:  {},
	constvars.QueryParamFilterBy:    {},
	constvars.QueryParamFilterValue: {},
	constvars.QueryParamDebug:       {},
}

type queryShaper struct {
	whitelists   map[string]*Whitelist
	defaultLimit int
	maxLimit     int
	location     *time.Location
	now          func() time.Time
}

func NewQueryShaper(cfg *config.InternalConfig, whitelists ...*Whitelist) contracts.QueryShaper {
	registry := make(map[string]*Whitelist, len(whitelists))
	for _, w := range whitelists {
		registry[w.ResourceType] = w
	}

	defaultLimit := cfg.Query.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = constvars.DefaultLimit
	}
	maxLimit := cfg.Query.MaxLimit
	if maxLimit <= 0 || maxLimit > constvars.MaxLimit {
		maxLimit = constvars.MaxLimit
	}

	return &queryShaper{
		whitelists:   registry,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		location:     utils.LoadLocation(cfg.App.Timezone),
		now:          time.Now,
	}
}

// Shape validates raw query parameters against the resource whitelist and
// returns the typed query. Anything not whitelisted is rejected.
func (s *queryShaper) Shape(resourceType string, raw url.Values) (*contracts.QuerySpecification, error) {
	whitelist, ok := s.whitelists[resourceType]
	if !ok {
		return nil, exceptions.ErrUnknownResource(nil, resourceType)
	}

	for key, values := range raw {
		if len(values) > 1 {
			return nil, exceptions.ErrInvalidQueryValue(nil, key, strings.Join(values, ","), []string{"a single value"})
		}
	}

	page, limit, err := s.pagination(raw)
	if err != nil {
		return nil, err
	}

	filters, err := collectFilters(whitelist, raw)
	if err != nil {
		return nil, err
	}

	today := utils.CivilDate(s.now(), s.location)
	predicates := make([]contracts.Predicate, 0, len(filters))
	debugPredicates := make([]string, 0, len(filters))
	for _, filter := range filters {
		predicate, err := s.buildPredicate(filter.field, filter.key, filter.value, today)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, predicate...)
		for _, p := range predicate {
			debugPredicates = append(debugPredicates, describePredicate(p, filter.field.Sensitive))
		}
	}

	sortFields, err := buildSort(whitelist, raw)
	if err != nil {
		return nil, err
	}

	spec := &contracts.QuerySpecification{
		ResourceType: resourceType,
		Predicates:   predicates,
		Sort:         sortFields,
		Page:         page,
		Limit:        limit,
	}

	debug, err := parseDebugFlag(raw)
	if err != nil {
		return nil, err
	}
	if debug {
		spec.Debug = &contracts.QueryDebug{
			Predicates:     debugPredicates,
			Sort:           describeSort(sortFields),
			RequestedPage:  raw.Get(constvars.QueryParamPage),
			RequestedLimit: raw.Get(constvars.QueryParamLimit),
			Page:           page,
			Limit:          limit,
		}
	}

	return spec, nil
}

func (s *queryShaper) pagination(raw url.Values) (int, int, error) {
	page := constvars.DefaultPage
	limit := s.defaultLimit

	if values, ok := raw[constvars.QueryParamPage]; ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil || parsed < 1 {
			return 0, 0, exceptions.ErrInvalidQueryValue(err, constvars.QueryParamPage, values[0], []string{"positive integer"})
		}
		page = parsed
	}

	if values, ok := raw[constvars.QueryParamLimit]; ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil || parsed < 1 || parsed > s.maxLimit {
			return 0, 0, exceptions.ErrInvalidQueryValue(err, constvars.QueryParamLimit, values[0], []string{fmt.Sprintf("integer 1-%d", s.maxLimit)})
		}
		limit = parsed
	}

	return page, limit, nil
}

type filterInput struct {
	key   string
	value string
	field Field
}

// collectFilters gathers every non-reserved key plus the filterBy pair, in
// key order so the resulting predicates are deterministic.
func collectFilters(whitelist *Whitelist, raw url.Values) ([]filterInput, error) {
	values := make(map[string]string)
	for key, v := range raw {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		values[key] = v[0]
	}

	_, hasFilterBy := raw[constvars.QueryParamFilterBy]
	_, hasFilterValue := raw[constvars.QueryParamFilterValue]
	switch {
	case hasFilterBy && hasFilterValue:
		key := strings.TrimSpace(raw.Get(constvars.QueryParamFilterBy))
		if _, duplicate := values[key]; duplicate {
			return nil, exceptions.ErrInvalidQueryValue(nil, constvars.QueryParamFilterBy, key, []string{"a key not already given as a parameter"})
		}
		if _, reserved := reservedKeys[key]; reserved || key == "" {
			return nil, exceptions.ErrInvalidQuery(nil, constvars.QueryParamFilterBy, whitelist.filterableKeys())
		}
		values[key] = raw.Get(constvars.QueryParamFilterValue)
	case hasFilterBy:
		return nil, exceptions.ErrInvalidQuery(nil, constvars.QueryParamFilterValue, []string{constvars.QueryParamFilterBy + " with " + constvars.QueryParamFilterValue})
	case hasFilterValue:
		return nil, exceptions.ErrInvalidQuery(nil, constvars.QueryParamFilterBy, []string{constvars.QueryParamFilterBy + " with " + constvars.QueryParamFilterValue})
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]filterInput, 0, len(keys))
	for _, key := range keys {
		field, ok := whitelist.Fields[key]
		if !ok || !field.Filterable {
			return nil, exceptions.ErrInvalidQuery(nil, key, whitelist.filterableKeys())
		}
		value := strings.TrimSpace(values[key])
		if value == "" {
			return nil, exceptions.ErrInvalidQueryValue(nil, key, values[key], []string{"non-empty " + field.Type.String()})
		}
		out = append(out, filterInput{key: key, value: value, field: field})
	}
	return out, nil
}

func (s *queryShaper) buildPredicate(field Field, key, value string, today time.Time) ([]contracts.Predicate, error) {
	switch field.Virtual {
	case virtualFullName:
		return []contracts.Predicate{{Operator: contracts.OpAny, Any: []contracts.Predicate{
			{Field: "firstName", Operator: contracts.OpContains, Value: value},
			{Field: "lastName", Operator: contracts.OpContains, Value: value},
		}}}, nil
	case virtualAge, virtualMinAge, virtualMaxAge:
		years, err := strconv.Atoi(value)
		if err != nil || years < 0 || years > maxAge {
			return nil, exceptions.ErrInvalidQueryValue(err, key, value, []string{fmt.Sprintf("integer 0-%d", maxAge)})
		}
		return ageRange(field, years, today), nil
	}

	switch field.Type {
	case typeString:
		if field.Exact {
			return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpEq, Value: value}}, nil
		}
		return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpContains, Value: value}}, nil
	case typeEnum:
		for _, allowed := range field.AllowedValues {
			if strings.EqualFold(allowed, value) {
				return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpEq, Value: allowed}}, nil
			}
		}
		return nil, exceptions.ErrInvalidQueryValue(nil, key, value, field.AllowedValues)
	case typeBoolean:
		switch value {
		case "true":
			return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpEq, Value: true}}, nil
		case "false":
			return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpEq, Value: false}}, nil
		}
		return nil, exceptions.ErrInvalidQueryValue(nil, key, value, []string{"true", "false"})
	case typeNumber:
		number, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
			return nil, exceptions.ErrInvalidQueryValue(err, key, value, []string{"number"})
		}
		return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpEq, Value: number}}, nil
	case typeDate:
		location := s.location
		if field.DateOnly {
			location = time.UTC
		}
		day, err := utils.ParseISODate(value, location)
		if err != nil {
			return nil, exceptions.ErrInvalidQueryValue(err, key, value, []string{constvars.DateFormatISO})
		}
		return []contracts.Predicate{
			{Field: field.StorageField, Operator: contracts.OpGte, Value: day},
			{Field: field.StorageField, Operator: contracts.OpLt, Value: day.AddDate(0, 0, 1)},
		}, nil
	}

	return nil, exceptions.ErrInvalidQuery(nil, key, nil)
}

// ageRange turns an age bound into a birth date range relative to today,
// which is a civil date at UTC midnight. Someone is N on today when
// today-(N+1)y < dob <= today-Ny.
func ageRange(field Field, years int, today time.Time) []contracts.Predicate {
	youngestBirth := today.AddDate(-years, 0, 1)
	oldestBirth := today.AddDate(-(years + 1), 0, 1)

	switch field.Virtual {
	case virtualMinAge:
		return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpLt, Value: youngestBirth}}
	case virtualMaxAge:
		return []contracts.Predicate{{Field: field.StorageField, Operator: contracts.OpGte, Value: oldestBirth}}
	default:
		return []contracts.Predicate{
			{Field: field.StorageField, Operator: contracts.OpGte, Value: oldestBirth},
			{Field: field.StorageField, Operator: contracts.OpLt, Value: youngestBirth},
		}
	}
}

type sortRequest struct {
	key       string
	direction contracts.SortDirection
}

func buildSort(whitelist *Whitelist, raw url.Values) ([]contracts.SortField, error) {
	paired, err := pairedSort(whitelist, raw)
	if err != nil {
		return nil, err
	}
	legacy, err := legacySort(whitelist, raw)
	if err != nil {
		return nil, err
	}

	var chosen *sortRequest
	switch {
	case paired != nil && legacy != nil:
		if *paired != *legacy {
			return nil, exceptions.ErrInvalidQueryValue(nil, constvars.QueryParamSortLegacy, raw.Get(constvars.QueryParamSortLegacy),
				[]string{"same field and order as " + constvars.QueryParamSortBy})
		}
		chosen = paired
	case paired != nil:
		chosen = paired
	case legacy != nil:
		chosen = legacy
	}

	var fields []contracts.SortField
	if chosen == nil {
		fields = append(fields, whitelist.DefaultSort...)
	} else {
		fields = expandSort(whitelist.Fields[chosen.key], chosen.direction)
	}

	if len(fields) > 0 && fields[len(fields)-1].Field != fieldID {
		fields = append(fields, contracts.SortField{Field: fieldID, Direction: fields[0].Direction})
	}
	return fields, nil
}

func pairedSort(whitelist *Whitelist, raw url.Values) (*sortRequest, error) {
	_, hasOrder := raw[constvars.QueryParamSortOrder]
	if _, ok := raw[constvars.QueryParamSortBy]; !ok {
		if hasOrder {
			return nil, exceptions.ErrInvalidQuery(nil, constvars.QueryParamSortOrder, []string{constvars.QueryParamSortBy + " with " + constvars.QueryParamSortOrder})
		}
		return nil, nil
	}

	key := strings.TrimSpace(raw.Get(constvars.QueryParamSortBy))
	if field, ok := whitelist.Fields[key]; !ok || !field.Sortable {
		return nil, exceptions.ErrInvalidQueryValue(nil, constvars.QueryParamSortBy, key, whitelist.sortableKeys())
	}

	direction := contracts.SortAsc
	if hasOrder {
		order := strings.TrimSpace(raw.Get(constvars.QueryParamSortOrder))
		switch {
		case strings.EqualFold(order, constvars.SortOrderAsc):
			direction = contracts.SortAsc
		case strings.EqualFold(order, constvars.SortOrderDesc):
			direction = contracts.SortDesc
		default:
			return nil, exceptions.ErrInvalidQueryValue(nil, constvars.QueryParamSortOrder, order, []string{constvars.SortOrderAsc, constvars.SortOrderDesc})
		}
	}
	return &sortRequest{key: key, direction: direction}, nil
}

func legacySort(whitelist *Whitelist, raw url.Values) (*sortRequest, error) {
	if _, ok := raw[constvars.QueryParamSortLegacy]; !ok {
		return nil, nil
	}

	token := strings.TrimSpace(raw.Get(constvars.QueryParamSortLegacy))
	direction := contracts.SortAsc
	key := token
	if strings.HasPrefix(token, "-") {
		direction = contracts.SortDesc
		key = token[1:]
	}

	if field, ok := whitelist.Fields[key]; !ok || !field.Sortable {
		return nil, exceptions.ErrInvalidQueryValue(nil, constvars.QueryParamSortLegacy, token, whitelist.sortableKeys())
	}
	return &sortRequest{key: key, direction: direction}, nil
}

// expandSort resolves virtual fields onto stored ones.
func expandSort(field Field, direction contracts.SortDirection) []contracts.SortField {
	switch field.Virtual {
	case virtualFullName:
		return []contracts.SortField{
			{Field: "firstName", Direction: direction},
			{Field: "lastName", Direction: direction},
		}
	case virtualAge:
		// Older people have earlier birth dates.
		return []contracts.SortField{{Field: field.StorageField, Direction: direction.Invert()}}
	default:
		return []contracts.SortField{{Field: field.StorageField, Direction: direction}}
	}
}

func parseDebugFlag(raw url.Values) (bool, error) {
	values, ok := raw[constvars.QueryParamDebug]
	if !ok {
		return false, nil
	}
	switch values[0] {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, exceptions.ErrInvalidQueryValue(nil, constvars.QueryParamDebug, values[0], []string{"true", "false"})
}

func describePredicate(p contracts.Predicate, sensitive bool) string {
	if p.Operator == contracts.OpAny {
		parts := make([]string, 0, len(p.Any))
		for _, alt := range p.Any {
			parts = append(parts, describePredicate(alt, sensitive))
		}
		return "any(" + strings.Join(parts, " | ") + ")"
	}

	value := formatValue(p.Value)
	if sensitive {
		value = constvars.MaskedDebugValue
	}
	return fmt.Sprintf("%s %s %s", p.Field, p.Operator, value)
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	case []string:
		return "[" + strings.Join(v, ",") + "]"
	default:
		return fmt.Sprint(v)
	}
}

func describeSort(fields []contracts.SortField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Field+" "+f.Direction.String())
	}
	return out
}
