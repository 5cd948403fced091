package users

import (
	"context"
	"sync"
	"time"

	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/app/services/core/access"
	"medblock-service/internal/app/services/core/masking"
	"medblock-service/internal/app/services/core/orchestrator"
	"medblock-service/internal/app/services/core/queryshaper"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// memoryUserRepository applies sets the way the record store does: only on a
// matching version, bumping it afterwards.
type memoryUserRepository struct {
	mu       sync.Mutex
	users    map[string]*models.User
	lastSpec contracts.FindSpec
}

func newMemoryUserRepository(users ...*models.User) *memoryUserRepository {
	repo := &memoryUserRepository{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.IDHex()] = u
	}
	return repo
}

func (m *memoryUserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (m *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepository) Find(ctx context.Context, spec contracts.FindSpec) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSpec = spec
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		if !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memoryUserRepository) Count(ctx context.Context, predicates []contracts.Predicate) (int64, error) {
	users, _ := m.Find(ctx, contracts.FindSpec{Predicates: predicates})
	return int64(len(users)), nil
}

func (m *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.IDHex()] = user
	return nil
}

func (m *memoryUserRepository) Save(ctx context.Context, userID string, expectedVersion int64, set map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return exceptions.ErrNotFound(nil, constvars.CollectionUsers)
	}
	if user.Version != expectedVersion {
		return exceptions.ErrStaleWrite(nil, constvars.CollectionUsers, userID, expectedVersion)
	}
	for key, value := range set {
		switch key {
		case "firstName":
			user.FirstName = value.(string)
		case "lastName":
			user.LastName = value.(string)
		case "phoneNumber":
			user.PhoneNumber = value.(string)
		case "specialization":
			user.Specialization = value.(string)
		case "role":
			user.Role = value.(string)
		case "departmentAffiliations":
			user.DepartmentAffiliations = value.([]string)
		case "facilityAffiliations":
			user.FacilityAffiliations = value.([]string)
		case "verification":
			user.Verification = value.(models.ProfessionalVerification)
		case "isActive":
			user.IsActive = value.(bool)
		case "isDeleted":
			user.IsDeleted = value.(bool)
		case "deletedAt":
			at := value.(time.Time)
			user.DeletedAt = &at
		case "deletedBy":
			user.DeletedBy = value.(string)
		}
	}
	user.Version++
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []contracts.AuditEvent
}

func (r *recordingAudit) Record(ctx context.Context, event contracts.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func newTestOrchestrator(audit contracts.AuditSink) *orchestrator.Orchestrator {
	log := zap.NewNop()
	cfg := &config.InternalConfig{Query: config.AppQuery{DefaultLimit: 10, MaxLimit: 100}}
	return orchestrator.NewOrchestrator(
		access.NewAccessController(audit, log),
		queryshaper.NewQueryShaper(cfg, queryshaper.UsersWhitelist()),
		masking.NewMasker(log),
		audit,
		log,
	)
}

func identityContext(user *models.User) context.Context {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-u")
	return models.ContextWithIdentity(ctx, models.NewIdentity(user, "jti", time.Now().Add(time.Hour)))
}
