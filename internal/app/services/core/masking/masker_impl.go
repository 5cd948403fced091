package masking

import (
	"fmt"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

const fieldID = "id"

type masker struct {
	Policies map[string]*Policy
	Log      *zap.Logger
}

func NewMasker(logger *zap.Logger) contracts.Masker {
	return &masker{
		Policies: map[string]*Policy{
			constvars.ResourceUsers:    UsersPolicy(),
			constvars.ResourcePatients: PatientsPolicy(),
		},
		Log: logger,
	}
}

// Mask returns a new view of record for identity; record is not modified.
// Any internal failure degrades to a view holding only the id.
func (m *masker) Mask(record map[string]interface{}, identity *models.Identity, resourceType string) (view map[string]interface{}) {
	if record == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			m.Log.Error(constvars.ErrDevMaskingPanicked,
				zap.String(constvars.LoggingResourceTypeKey, resourceType),
				zap.String(constvars.LoggingErrorMessageKey, fmt.Sprint(r)),
			)
			view = redactedView(record)
		}
	}()

	policy, ok := m.Policies[resourceType]
	if !ok {
		m.Log.Error("Masking policy missing for resource",
			zap.String(constvars.LoggingResourceTypeKey, resourceType))
		return redactedView(record)
	}

	role := ""
	if identity != nil {
		role = identity.Role
	}
	return policy.apply(record, "", role)
}

func (m *masker) MaskList(records []map[string]interface{}, identity *models.Identity, resourceType string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		out = append(out, m.Mask(record, identity, resourceType))
	}
	return out
}

func (p *Policy) apply(record map[string]interface{}, prefix, role string) map[string]interface{} {
	out := make(map[string]interface{}, len(record))
	for key, value := range record {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		out[key] = p.fieldView(path, value, role)
	}
	return out
}

func (p *Policy) fieldView(path string, value interface{}, role string) interface{} {
	if rule, ok := p.Rules[path]; ok {
		if value == nil {
			return nil
		}
		if _, visible := rule.VisibleTo[role]; visible {
			return value
		}
		return rule.Mask(value)
	}

	if _, public := p.Public[path]; public {
		return value
	}

	if _, container := p.containers[path]; container {
		switch nested := value.(type) {
		case nil:
			return nil
		case map[string]interface{}:
			return p.apply(nested, path, role)
		}
	}

	return RedactedValue
}

func redactedView(record map[string]interface{}) map[string]interface{} {
	view := map[string]interface{}{}
	if id, ok := record[fieldID]; ok {
		view[fieldID] = id
	}
	return view
}
