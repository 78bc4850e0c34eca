package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/repository"
)

// ErrRoleNotFound indicates an import row references an unknown role.
var ErrRoleNotFound = errors.New("role not found")

// ErrInvalidImportDocument indicates the import payload failed decoding or
// schema validation.
var ErrInvalidImportDocument = errors.New("invalid import document")

const userImportSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["users"],
	"properties": {
		"users": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["first_name", "last_name", "email", "role"],
				"properties": {
					"first_name": {"type": "string", "minLength": 1, "maxLength": 255},
					"last_name": {"type": "string", "minLength": 1, "maxLength": 255},
					"email": {"type": "string", "format": "email", "maxLength": 255},
					"role": {"type": "string", "enum": ["student", "teacher", "administrator"]}
				}
			}
		}
	}
}`

// UserImportService bulk-imports users from a schema-validated document.
type UserImportService interface {
	Import(ctx context.Context, callerID uint, document []byte) (dto.UserImportResult, error)
}

type userImportService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	schema *jsonschema.Schema
	logger zerolog.Logger
}

// NewUserImportService builds the import service. The embedded schema is
// static; a compile failure is a programming error.
func NewUserImportService(users repository.UserRepository, roles repository.RoleRepository, logger zerolog.Logger) (UserImportService, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("user-import.json", strings.NewReader(userImportSchema)); err != nil {
		return nil, fmt.Errorf("failed to register user import schema: %w", err)
	}

	schema, err := compiler.Compile("user-import.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile user import schema: %w", err)
	}

	return &userImportService{
		users:  users,
		roles:  roles,
		schema: schema,
		logger: logger.With().Str("component", "user_import_service").Logger(),
	}, nil
}

// Import validates the document against the schema, then creates the users
// one by one. Rows whose email already exists are skipped, not failed.
func (s *userImportService) Import(ctx context.Context, callerID uint, document []byte) (dto.UserImportResult, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserImportResult{}, ErrUserNotFound
		}
		return dto.UserImportResult{}, err
	}
	if !caller.HasPermission(models.PermissionUserImport) {
		return dto.UserImportResult{}, ErrUnauthorized
	}

	var decoded interface{}
	decoder := json.NewDecoder(bytes.NewReader(document))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err != nil {
		return dto.UserImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImportDocument, err)
	}

	if err := s.schema.Validate(decoded); err != nil {
		return dto.UserImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImportDocument, err)
	}

	var request dto.UserImportRequest
	if err := json.Unmarshal(document, &request); err != nil {
		return dto.UserImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImportDocument, err)
	}

	result := dto.UserImportResult{Skipped: []string{}}

	for _, row := range request.Users {
		if _, err := s.users.FindByEmail(ctx, row.Email); err == nil {
			result.Skipped = append(result.Skipped, row.Email)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserImportResult{}, err
		}

		role, err := s.roles.FindByName(ctx, row.Role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.UserImportResult{}, fmt.Errorf("%w: %s", ErrRoleNotFound, row.Role)
			}
			return dto.UserImportResult{}, err
		}

		user := models.User{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			RoleID:    role.ID,
		}

		if err := s.users.Create(ctx, &user); err != nil {
			return dto.UserImportResult{}, err
		}

		result.Imported++
	}

	s.logger.Info().Int("imported", result.Imported).Int("skipped", len(result.Skipped)).Msg("user import completed")

	return result, nil
}
