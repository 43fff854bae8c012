package shared

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tyemirov/gsync/internal/execshell"
)

var (
	ErrRepositoryPathInvalid  = errors.New("repository path invalid")
	ErrOwnerSlugInvalid       = errors.New("owner slug invalid")
	ErrRepositoryNameInvalid  = errors.New("repository name invalid")
	ErrOwnerRepositoryInvalid = errors.New("owner repository invalid")
	ownerSlugPattern          = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	repositoryNamePattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// RepositoryPath represents an absolute filesystem location for a Git repository.
type RepositoryPath struct {
	value string
}

// NewRepositoryPath validates and normalizes repository paths.
func NewRepositoryPath(rawValue string) (RepositoryPath, error) {
	if strings.ContainsAny(rawValue, "\r\n") {
		return RepositoryPath{}, fmt.Errorf("%w: contains newline", ErrRepositoryPathInvalid)
	}
	trimmed := strings.TrimSpace(rawValue)
	if len(trimmed) == 0 {
		return RepositoryPath{}, fmt.Errorf("%w: empty", ErrRepositoryPathInvalid)
	}
	cleaned := filepath.Clean(trimmed)
	return RepositoryPath{value: cleaned}, nil
}

// String exposes the normalized path string.
func (path RepositoryPath) String() string {
	if len(path.value) == 0 {
		panic("shared.RepositoryPath: zero value")
	}
	return path.value
}

// OwnerSlug represents a GitHub owner segment (user or organization).
type OwnerSlug struct {
	value string
}

// NewOwnerSlug validates GitHub owner strings.
func NewOwnerSlug(rawValue string) (OwnerSlug, error) {
	trimmed := strings.TrimSpace(rawValue)
	if len(trimmed) == 0 {
		return OwnerSlug{}, fmt.Errorf("%w: empty", ErrOwnerSlugInvalid)
	}
	if strings.Contains(trimmed, "/") {
		return OwnerSlug{}, fmt.Errorf("%w: contains slash", ErrOwnerSlugInvalid)
	}
	if !ownerSlugPattern.MatchString(trimmed) {
		return OwnerSlug{}, fmt.Errorf("%w: %s", ErrOwnerSlugInvalid, trimmed)
	}
	return OwnerSlug{value: trimmed}, nil
}

// String returns the owner slug.
func (slug OwnerSlug) String() string {
	if len(slug.value) == 0 {
		panic("shared.OwnerSlug: zero value")
	}
	return slug.value
}

// RepositoryName models a GitHub repository name segment.
type RepositoryName struct {
	value string
}

// NewRepositoryName validates repository names.
func NewRepositoryName(rawValue string) (RepositoryName, error) {
	trimmed := strings.TrimSpace(rawValue)
	if len(trimmed) == 0 {
		return RepositoryName{}, fmt.Errorf("%w: empty", ErrRepositoryNameInvalid)
	}
	if strings.Contains(trimmed, "/") {
		return RepositoryName{}, fmt.Errorf("%w: contains slash", ErrRepositoryNameInvalid)
	}
	if !repositoryNamePattern.MatchString(trimmed) {
		return RepositoryName{}, fmt.Errorf("%w: %s", ErrRepositoryNameInvalid, trimmed)
	}
	return RepositoryName{value: trimmed}, nil
}

// String returns the repository name.
func (name RepositoryName) String() string {
	if len(name.value) == 0 {
		panic("shared.RepositoryName: zero value")
	}
	return name.value
}

// OwnerRepository represents the owner/repository tuple for a GitHub project.
type OwnerRepository struct {
	owner      OwnerSlug
	repository RepositoryName
}

// NewOwnerRepository parses an owner/repository tuple (e.g., "owner/repo").
func NewOwnerRepository(rawValue string) (OwnerRepository, error) {
	trimmed := strings.TrimSpace(rawValue)
	if len(trimmed) == 0 {
		return OwnerRepository{}, fmt.Errorf("%w: empty", ErrOwnerRepositoryInvalid)
	}

	segments := strings.Split(trimmed, "/")
	if len(segments) != 2 {
		return OwnerRepository{}, fmt.Errorf("%w: expected owner/repository", ErrOwnerRepositoryInvalid)
	}

	ownerSlug, ownerError := NewOwnerSlug(segments[0])
	if ownerError != nil {
		return OwnerRepository{}, fmt.Errorf("%w: owner invalid: %w", ErrOwnerRepositoryInvalid, ownerError)
	}

	repositoryName, repositoryError := NewRepositoryName(segments[1])
	if repositoryError != nil {
		return OwnerRepository{}, fmt.Errorf("%w: repository invalid: %w", ErrOwnerRepositoryInvalid, repositoryError)
	}

	return OwnerRepository{owner: ownerSlug, repository: repositoryName}, nil
}

// NewOwnerRepositoryFromParts constructs the tuple from validated segments.
func NewOwnerRepositoryFromParts(owner OwnerSlug, repository RepositoryName) OwnerRepository {
	return OwnerRepository{owner: owner, repository: repository}
}

// Owner returns the owner slug.
func (tuple OwnerRepository) Owner() OwnerSlug {
	if len(tuple.owner.value) == 0 || len(tuple.repository.value) == 0 {
		panic("shared.OwnerRepository: zero value")
	}
	return tuple.owner
}

// Repository returns the repository name.
func (tuple OwnerRepository) Repository() RepositoryName {
	if len(tuple.owner.value) == 0 || len(tuple.repository.value) == 0 {
		panic("shared.OwnerRepository: zero value")
	}
	return tuple.repository
}

// String returns the owner/repository tuple.
func (tuple OwnerRepository) String() string {
	return tuple.Owner().String() + "/" + tuple.Repository().String()
}

// LocalRepository describes a version-controlled directory discovered on disk.
type LocalRepository struct {
	Name string
	Path string
}

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadDir(path string) ([]fs.DirEntry, error)
}

// ConfirmationResult captures the outcome of a user confirmation prompt.
type ConfirmationResult struct {
	Confirmed  bool
	ApplyToAll bool
}

// ConfirmationPrompter collects user confirmations prior to mutating actions.
type ConfirmationPrompter interface {
	Confirm(prompt string) (ConfirmationResult, error)
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryDiscoverer locates Git repositories and plain directories for bulk operations.
type RepositoryDiscoverer interface {
	DiscoverRepositories(rootDirectory string) ([]LocalRepository, error)
	ListDirectoryNames(rootDirectory string) ([]string, error)
}
