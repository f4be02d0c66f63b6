// Package credentials persists the signed-in identity and auth token in a
// local encrypted store so a session can be restored without a live network
// token.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/klyphq/klypstore/internal/crypto"
	"github.com/klyphq/klypstore/internal/entities"
)

const (
	// EnvEncryptionKey overrides the key file with a base64 key.
	EnvEncryptionKey = "KLYP_CREDENTIAL_KEY"

	// DefaultKeyFileName is the key file created in the user's home
	// directory when no key is configured.
	DefaultKeyFileName = ".klyp-credential-key"
)

const (
	keyRole      = "identity_role"
	keyFirstName = "identity_first_name"
	keyLastName  = "identity_last_name"
	keyPhone     = "identity_phone"
	keyFullName  = "identity_full_name"
	keyToken     = "auth_token"
)

// Identity is the locally persisted (who, role) pair used for offline
// session restoration.
type Identity struct {
	Role      entities.Role
	FirstName string
	LastName  string
	Phone     string
	FullName  string
}

type secret struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex;size:64"`
	Value     string `gorm:"type:text"` // encrypted
	UpdatedAt time.Time
}

func (secret) TableName() string {
	return "secrets"
}

// Config holds configuration for the credential store.
type Config struct {
	// DatabasePath is the SQLite file holding the encrypted values.
	DatabasePath string

	// EncryptionKey is the base64 32-byte key. When empty the key is
	// resolved from the environment, then from KeyFilePath.
	EncryptionKey string

	// KeyFilePath defaults to ~/.klyp-credential-key.
	KeyFilePath string
}

// Store is the local secure credential storage.
type Store struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
}

// New opens the credential store, resolving the encryption key and migrating
// the schema.
func New(cfg Config) (*Store, error) {
	key, err := resolveKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve encryption key: %w", err)
	}

	encryptor, err := crypto.NewEncryptor(key)
	if err != nil {
		return nil, fmt.Errorf("create encryptor: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open credential database: %w", err)
	}
	if err := db.AutoMigrate(&secret{}); err != nil {
		return nil, fmt.Errorf("migrate credential schema: %w", err)
	}

	return &Store{db: db, encryptor: encryptor}, nil
}

func resolveKey(cfg Config) (string, error) {
	if cfg.EncryptionKey != "" {
		return cfg.EncryptionKey, nil
	}
	if envKey := os.Getenv(EnvEncryptionKey); envKey != "" {
		return envKey, nil
	}

	keyFilePath := cfg.KeyFilePath
	if keyFilePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		keyFilePath = filepath.Join(homeDir, DefaultKeyFileName)
	}
	return crypto.LoadOrCreateKeyFile(keyFilePath)
}

// SaveStudentIdentity persists a student (firstName, lastName) identity,
// replacing any previously stored identity.
func (s *Store) SaveStudentIdentity(firstName, lastName string) error {
	if err := s.clearIdentity(); err != nil {
		return err
	}
	return s.setAll(map[string]string{
		keyRole:      string(entities.RoleStudent),
		keyFirstName: firstName,
		keyLastName:  lastName,
	})
}

// SaveEducatorIdentity persists an educator (phone, fullName) identity,
// replacing any previously stored identity.
func (s *Store) SaveEducatorIdentity(phone, fullName string) error {
	if err := s.clearIdentity(); err != nil {
		return err
	}
	return s.setAll(map[string]string{
		keyRole:     string(entities.RoleEducator),
		keyPhone:    phone,
		keyFullName: fullName,
	})
}

// Identity returns the persisted identity, or nil when none is stored.
func (s *Store) Identity() (*Identity, error) {
	role, err := s.get(keyRole)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, nil
	}

	identity := &Identity{Role: entities.Role(role)}
	if identity.FirstName, err = s.get(keyFirstName); err != nil {
		return nil, err
	}
	if identity.LastName, err = s.get(keyLastName); err != nil {
		return nil, err
	}
	if identity.Phone, err = s.get(keyPhone); err != nil {
		return nil, err
	}
	if identity.FullName, err = s.get(keyFullName); err != nil {
		return nil, err
	}
	return identity, nil
}

// SaveToken persists the remote auth token.
func (s *Store) SaveToken(token string) error {
	return s.set(keyToken, token)
}

// Token returns the stored remote auth token, or "" when none is stored.
func (s *Store) Token() (string, error) {
	return s.get(keyToken)
}

// ClearAll wipes every stored credential. Called on logout.
func (s *Store) ClearAll() error {
	return s.db.Where("1 = 1").Delete(&secret{}).Error
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) clearIdentity() error {
	keys := []string{keyRole, keyFirstName, keyLastName, keyPhone, keyFullName}
	return s.db.Where("key IN ?", keys).Delete(&secret{}).Error
}

func (s *Store) setAll(values map[string]string) error {
	for k, v := range values {
		if err := s.set(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) set(key, value string) error {
	encrypted, err := s.encryptor.Encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}

	rec := secret{Key: key, Value: encrypted, UpdatedAt: time.Now().UTC()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) (string, error) {
	var rec secret
	err := s.db.Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return s.encryptor.Decrypt(rec.Value)
}
