package identity

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/constants"
)

// Credential is the provider's private storage record. It lives in its own
// table, separate from the user profile collection the gateways manage.
type Credential struct {
	ID           string    `gorm:"type:varchar(36);primarykey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
}

// TableName keeps credential storage clearly separated from profile records.
func (Credential) TableName() string {
	return "identity_credentials"
}

// BeforeCreate assigns the opaque identity identifier.
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// LocalProvider implements Provider against the local database with bcrypt
// hashed credentials.
type LocalProvider struct {
	db *gorm.DB

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewLocalProvider creates a LocalProvider backed by db.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db:   db,
		subs: make(map[int]chan Event),
	}
}

// CreateAccount registers a credential record and returns the new identity id.
func (p *LocalProvider) CreateAccount(email, password string) (string, error) {
	if len(password) < constants.MinPasswordLength {
		return "", ErrWeakPassword
	}

	var existing Credential
	err := p.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	cred := &Credential{
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := p.db.Create(cred).Error; err != nil {
		return "", fmt.Errorf("failed to create credential: %w", err)
	}

	return cred.ID, nil
}

// Authenticate verifies the credentials and publishes a login event.
func (p *LocalProvider) Authenticate(email, password string) (string, error) {
	var cred Credential
	if err := p.db.Where("email = ?", email).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	p.publish(Event{Type: EventLogin, UserID: cred.ID})
	return cred.ID, nil
}

// SignOut publishes a logout event.
func (p *LocalProvider) SignOut(userID string) {
	p.publish(Event{Type: EventLogout, UserID: userID})
}

// Subscribe registers a listener for auth-state transitions.
func (p *LocalProvider) Subscribe() (<-chan Event, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++

	ch := make(chan Event, 16)
	p.subs[id] = ch

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if sub, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// publish fans an event out to every subscriber, dropping it for any
// subscriber whose buffer is full.
func (p *LocalProvider) publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
