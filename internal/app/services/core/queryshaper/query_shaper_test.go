package queryshaper

import (
	"net/url"
	"testing"
	"time"

	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShaper(t *testing.T) *queryShaper {
	t.Helper()
	cfg := &config.InternalConfig{
		App:   config.App{Timezone: "Africa/Nairobi"},
		Query: config.AppQuery{DefaultLimit: 10, MaxLimit: 100},
	}
	s := NewQueryShaper(cfg, UsersWhitelist(), PatientsWhitelist()).(*queryShaper)
	// 23:30 UTC is already the 16th in Nairobi.
	s.now = func() time.Time { return time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC) }
	return s
}

func values(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Add(pairs[i], pairs[i+1])
	}
	return v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertInvalidQuery(t *testing.T, err error, param string) {
	t.Helper()
	require.Error(t, err)
	customErr, ok := exceptions.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, exceptions.CodeInvalidQuery, customErr.Code)
	assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	assert.Contains(t, customErr.ClientMessage, "'"+param+"'")
}

func TestShapeDefaults(t *testing.T) {
	spec, err := newShaper(t).Shape(constvars.ResourcePatients, url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 10, spec.Limit)
	assert.Equal(t, int64(0), spec.Skip())
	assert.Empty(t, spec.Predicates)
	assert.Equal(t, []contracts.SortField{
		{Field: "createdAt", Direction: contracts.SortDesc},
		{Field: "_id", Direction: contracts.SortDesc},
	}, spec.Sort)
	assert.Nil(t, spec.Debug)
}

func TestShapeUnknownResource(t *testing.T) {
	_, err := newShaper(t).Shape("invoices", url.Values{})
	assert.True(t, exceptions.HasCode(err, exceptions.CodeServerMisconfigured))
}

func TestShapePagination(t *testing.T) {
	s := newShaper(t)

	spec, err := s.Shape(constvars.ResourcePatients, values("page", "3", "limit", "25"))
	require.NoError(t, err)
	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 25, spec.Limit)
	assert.Equal(t, int64(50), spec.Skip())

	spec, err = s.Shape(constvars.ResourcePatients, values("limit", "100"))
	require.NoError(t, err)
	assert.Equal(t, 100, spec.Limit)

	for _, tc := range []struct{ key, value string }{
		{"page", "0"}, {"page", "-1"}, {"page", "1.5"}, {"page", "abc"}, {"page", ""},
		{"limit", "0"}, {"limit", "101"}, {"limit", "ten"}, {"limit", "-5"},
	} {
		_, err := s.Shape(constvars.ResourcePatients, values(tc.key, tc.value))
		assertInvalidQuery(t, err, tc.key)
	}
}

func TestShapeRejectsUnknownFilter(t *testing.T) {
	_, err := newShaper(t).Shape(constvars.ResourcePatients, values("ssn", "123"))
	assertInvalidQuery(t, err, "ssn")

	customErr, _ := exceptions.AsCustomError(err)
	assert.Contains(t, customErr.ClientMessage, "firstName")
	assert.Contains(t, customErr.ClientMessage, "weightKg")
}

func TestShapeRejectsRepeatedKey(t *testing.T) {
	_, err := newShaper(t).Shape(constvars.ResourcePatients, values("gender", "male", "gender", "female"))
	assertInvalidQuery(t, err, "gender")
}

func TestShapeTypedFilters(t *testing.T) {
	s := newShaper(t)

	t.Run("string is contains", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("firstName", " Jo "))
		require.NoError(t, err)
		assert.Equal(t, []contracts.Predicate{{Field: "firstName", Operator: contracts.OpContains, Value: "Jo"}}, spec.Predicates)
	})

	t.Run("exact string is eq", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("departmentId", "d1"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.Predicate{{Field: "departmentId", Operator: contracts.OpEq, Value: "d1"}}, spec.Predicates)
	})

	t.Run("enum is normalized", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("gender", "FEMALE"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.Predicate{{Field: "gender", Operator: contracts.OpEq, Value: "female"}}, spec.Predicates)
	})

	t.Run("enum outside allowed values", func(t *testing.T) {
		_, err := s.Shape(constvars.ResourcePatients, values("bloodType", "Z+"))
		assertInvalidQuery(t, err, "bloodType")
	})

	t.Run("boolean literals only", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourceUsers, values("isActive", "false"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.Predicate{{Field: "isActive", Operator: contracts.OpEq, Value: false}}, spec.Predicates)

		_, err = s.Shape(constvars.ResourceUsers, values("isActive", "yes"))
		assertInvalidQuery(t, err, "isActive")
	})

	t.Run("number", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("heightCm", "172.5"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.Predicate{{Field: "heightCm", Operator: contracts.OpEq, Value: 172.5}}, spec.Predicates)

		_, err = s.Shape(constvars.ResourcePatients, values("weightKg", "heavy"))
		assertInvalidQuery(t, err, "weightKg")

		_, err = s.Shape(constvars.ResourcePatients, values("weightKg", "NaN"))
		assertInvalidQuery(t, err, "weightKg")
	})

	t.Run("date only field uses UTC day", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("dateOfBirth", "1990-02-03"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.Predicate{
			{Field: "dateOfBirth", Operator: contracts.OpGte, Value: date(1990, 2, 3)},
			{Field: "dateOfBirth", Operator: contracts.OpLt, Value: date(1990, 2, 4)},
		}, spec.Predicates)
	})

	t.Run("timestamp field uses configured zone", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("createdAt", "2024-01-10"))
		require.NoError(t, err)
		require.Len(t, spec.Predicates, 2)
		from := spec.Predicates[0].Value.(time.Time)
		assert.True(t, from.Equal(time.Date(2024, 1, 9, 21, 0, 0, 0, time.UTC)))
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := s.Shape(constvars.ResourcePatients, values("dateOfBirth", "03/02/1990"))
		assertInvalidQuery(t, err, "dateOfBirth")
	})

	t.Run("empty value", func(t *testing.T) {
		_, err := s.Shape(constvars.ResourcePatients, values("firstName", "  "))
		assertInvalidQuery(t, err, "firstName")
	})

	t.Run("full name searches both parts", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("fullName", "ann"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.Predicate{{Operator: contracts.OpAny, Any: []contracts.Predicate{
			{Field: "firstName", Operator: contracts.OpContains, Value: "ann"},
			{Field: "lastName", Operator: contracts.OpContains, Value: "ann"},
		}}}, spec.Predicates)
	})

	t.Run("filters combine with and in key order", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("gender", "male", "county", "Nairobi"))
		require.NoError(t, err)
		require.Len(t, spec.Predicates, 2)
		assert.Equal(t, "address.county", spec.Predicates[0].Field)
		assert.Equal(t, "gender", spec.Predicates[1].Field)
	})
}

func TestShapeAgeFilters(t *testing.T) {
	s := newShaper(t)

	spec, err := s.Shape(constvars.ResourcePatients, values("age", "30"))
	require.NoError(t, err)
	assert.Equal(t, []contracts.Predicate{
		{Field: "dateOfBirth", Operator: contracts.OpGte, Value: date(1993, 6, 17)},
		{Field: "dateOfBirth", Operator: contracts.OpLt, Value: date(1994, 6, 17)},
	}, spec.Predicates)

	spec, err = s.Shape(constvars.ResourcePatients, values("minAge", "18"))
	require.NoError(t, err)
	assert.Equal(t, []contracts.Predicate{{Field: "dateOfBirth", Operator: contracts.OpLt, Value: date(2006, 6, 17)}}, spec.Predicates)

	spec, err = s.Shape(constvars.ResourcePatients, values("maxAge", "65"))
	require.NoError(t, err)
	assert.Equal(t, []contracts.Predicate{{Field: "dateOfBirth", Operator: contracts.OpGte, Value: date(1958, 6, 17)}}, spec.Predicates)

	for _, bad := range []string{"-1", "151", "thirty", "2.5"} {
		_, err := s.Shape(constvars.ResourcePatients, values("age", bad))
		assertInvalidQuery(t, err, "age")
	}
}

func TestShapeFilterByPair(t *testing.T) {
	s := newShaper(t)

	spec, err := s.Shape(constvars.ResourcePatients, values("filterBy", "gender", "filterValue", "Other"))
	require.NoError(t, err)
	assert.Equal(t, []contracts.Predicate{{Field: "gender", Operator: contracts.OpEq, Value: "other"}}, spec.Predicates)

	_, err = s.Shape(constvars.ResourcePatients, values("filterBy", "gender"))
	assertInvalidQuery(t, err, "filterValue")

	_, err = s.Shape(constvars.ResourcePatients, values("filterValue", "x"))
	assertInvalidQuery(t, err, "filterBy")

	_, err = s.Shape(constvars.ResourcePatients, values("filterBy", "password", "filterValue", "x"))
	assertInvalidQuery(t, err, "password")

	_, err = s.Shape(constvars.ResourcePatients, values("filterBy", "gender", "filterValue", "male", "gender", "female"))
	assertInvalidQuery(t, err, "filterBy")
}

func TestShapeSort(t *testing.T) {
	s := newShaper(t)

	t.Run("legacy and paired shapes agree", func(t *testing.T) {
		legacy, err := s.Shape(constvars.ResourcePatients, values("sort", "-createdAt"))
		require.NoError(t, err)
		paired, err := s.Shape(constvars.ResourcePatients, values("sortBy", "createdAt", "sortOrder", "desc"))
		require.NoError(t, err)
		assert.Equal(t, legacy.Sort, paired.Sort)
	})

	t.Run("sortOrder defaults to asc", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("sortBy", "lastName"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.SortField{
			{Field: "lastName", Direction: contracts.SortAsc},
			{Field: "_id", Direction: contracts.SortAsc},
		}, spec.Sort)
	})

	t.Run("full name orders by parts", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("sort", "-fullName"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.SortField{
			{Field: "firstName", Direction: contracts.SortDesc},
			{Field: "lastName", Direction: contracts.SortDesc},
			{Field: "_id", Direction: contracts.SortDesc},
		}, spec.Sort)
	})

	t.Run("age orders by birth date inverted", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("sortBy", "age", "sortOrder", "ASC"))
		require.NoError(t, err)
		assert.Equal(t, []contracts.SortField{
			{Field: "dateOfBirth", Direction: contracts.SortDesc},
			{Field: "_id", Direction: contracts.SortDesc},
		}, spec.Sort)
	})

	t.Run("both shapes present and agreeing", func(t *testing.T) {
		spec, err := s.Shape(constvars.ResourcePatients, values("sort", "firstName", "sortBy", "firstName"))
		require.NoError(t, err)
		assert.Equal(t, "firstName", spec.Sort[0].Field)
	})

	t.Run("both shapes present and disagreeing", func(t *testing.T) {
		_, err := s.Shape(constvars.ResourcePatients, values("sort", "-firstName", "sortBy", "firstName"))
		assertInvalidQuery(t, err, "sort")
	})

	t.Run("unsortable field", func(t *testing.T) {
		_, err := s.Shape(constvars.ResourcePatients, values("sortBy", "nationalId"))
		assertInvalidQuery(t, err, "sortBy")

		_, err = s.Shape(constvars.ResourcePatients, values("sort", "-bloodType"))
		assertInvalidQuery(t, err, "sort")
	})

	t.Run("bad order", func(t *testing.T) {
		_, err := s.Shape(constvars.ResourcePatients, values("sortBy", "firstName", "sortOrder", "up"))
		assertInvalidQuery(t, err, "sortOrder")
	})

	t.Run("order without field", func(t *testing.T) {
		_, err := s.Shape(constvars.ResourcePatients, values("sortOrder", "desc"))
		assertInvalidQuery(t, err, "sortOrder")
	})
}

func TestShapeDebugTrace(t *testing.T) {
	s := newShaper(t)

	spec, err := s.Shape(constvars.ResourcePatients, values("debug", "true", "phoneNumber", "+254712345678", "gender", "male", "page", "2", "limit", "5"))
	require.NoError(t, err)
	require.NotNil(t, spec.Debug)

	assert.Equal(t, []string{"gender eq male", "phoneNumber eq ***"}, spec.Debug.Predicates)
	assert.Equal(t, []string{"createdAt desc", "_id desc"}, spec.Debug.Sort)
	assert.Equal(t, "2", spec.Debug.RequestedPage)
	assert.Equal(t, "5", spec.Debug.RequestedLimit)
	assert.Equal(t, 2, spec.Debug.Page)
	for _, line := range spec.Debug.Predicates {
		assert.NotContains(t, line, "712345678")
	}

	_, err = s.Shape(constvars.ResourcePatients, values("debug", "1"))
	assertInvalidQuery(t, err, "debug")
}

func TestUsersWhitelist(t *testing.T) {
	s := newShaper(t)

	spec, err := s.Shape(constvars.ResourceUsers, values("verificationStatus", "Pending", "departmentId", "d1"))
	require.NoError(t, err)
	assert.Equal(t, []contracts.Predicate{
		{Field: "departmentAffiliations", Operator: contracts.OpEq, Value: "d1"},
		{Field: "verification.status", Operator: contracts.OpEq, Value: "pending"},
	}, spec.Predicates)

	_, err = s.Shape(constvars.ResourceUsers, values("passwordHash", "x"))
	assertInvalidQuery(t, err, "passwordHash")
}
