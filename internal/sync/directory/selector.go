// Package directory implements the interactive target-directory
// navigator used before clone and pull workflows.
package directory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tyemirov/gsync/internal/repos/shared"
)

const (
	fileSystemMissingMessageConstant   = "directory selector file system not configured"
	readerMissingMessageConstant       = "directory selector reader not configured"
	writerMissingMessageConstant       = "directory selector writer not configured"
	displayLimitInvalidMessageConstant = "directory selector display limit must be positive"
	basePathRequiredMessageConstant    = "directory selector base path must be provided"

	currentLocationTemplateConstant  = "\nCurrent directory: %s\n"
	listingEntryTemplateConstant     = "  %d) %s\n"
	truncatedListingTemplateConstant = "  ... %d more not shown\n"
	navigatorPromptConstant          = "[number] descend, [u]p, [s]elect here, [m]ake subdirectory, [q]uit: "
	unknownInputMessageConstant      = "Unrecognized input. Enter a listed number, u, s, m, or q.\n"
	listingFailedTemplateConstant    = "Could not list %s: %v\n"
	makeDirectoryPromptConstant      = "New subdirectory name: "
	makeDirectoryFailedTemplate      = "Could not create %s: %v\n"
	invalidDirectoryNameMessage      = "Directory names must not be empty or contain path separators.\n"

	parentCommandConstant        = "u"
	selectCommandConstant        = "s"
	makeCommandConstant          = "m"
	quitCommandConstant          = "q"
	newDirectoryPermissionsValue = fs.FileMode(0o755)
)

// ErrFileSystemMissing indicates the selector was built without a file system.
var ErrFileSystemMissing = errors.New(fileSystemMissingMessageConstant)

// ErrReaderMissing indicates the selector was built without an input reader.
var ErrReaderMissing = errors.New(readerMissingMessageConstant)

// ErrWriterMissing indicates the selector was built without an output writer.
var ErrWriterMissing = errors.New(writerMissingMessageConstant)

// ErrDisplayLimitInvalid indicates a non-positive listing display limit.
var ErrDisplayLimitInvalid = errors.New(displayLimitInvalidMessageConstant)

// ErrBasePathRequired indicates navigation was started without a base path.
var ErrBasePathRequired = errors.New(basePathRequiredMessageConstant)

// Outcome is the result of one navigation session.
type Outcome struct {
	SelectedPath string
	Cancelled    bool
}

// Selector walks the directory tree through numbered listings until the
// operator selects a target or cancels.
type Selector struct {
	fileSystem   shared.FileSystem
	reader       *bufio.Reader
	writer       io.Writer
	displayLimit int
}

// NewSelector validates dependencies and constructs a Selector.
//
// displayLimit bounds how many subdirectories one listing shows; it is
// explicit configuration rather than ambient state so callers control
// screen usage.
func NewSelector(fileSystem shared.FileSystem, reader io.Reader, writer io.Writer, displayLimit int) (*Selector, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemMissing
	}
	if reader == nil {
		return nil, ErrReaderMissing
	}
	if writer == nil {
		return nil, ErrWriterMissing
	}
	if displayLimit < 1 {
		return nil, ErrDisplayLimitInvalid
	}
	return &Selector{
		fileSystem:   fileSystem,
		reader:       bufio.NewReader(reader),
		writer:       writer,
		displayLimit: displayLimit,
	}, nil
}

// SelectDirectory navigates from basePath until a directory is chosen or the
// session is cancelled. The returned path is absolute.
func (selector *Selector) SelectDirectory(basePath string) (Outcome, error) {
	trimmedBasePath := strings.TrimSpace(basePath)
	if len(trimmedBasePath) == 0 {
		return Outcome{}, ErrBasePathRequired
	}

	currentPath, absoluteError := selector.fileSystem.Abs(trimmedBasePath)
	if absoluteError != nil {
		return Outcome{}, absoluteError
	}

	for {
		subdirectoryNames := selector.listSubdirectories(currentPath)
		selector.printListing(currentPath, subdirectoryNames)

		rawInput, readError := selector.reader.ReadString('\n')
		normalizedInput := strings.ToLower(strings.TrimSpace(rawInput))

		switch normalizedInput {
		case quitCommandConstant:
			return Outcome{Cancelled: true}, nil
		case selectCommandConstant:
			return Outcome{SelectedPath: currentPath}, nil
		case parentCommandConstant:
			currentPath = filepath.Dir(currentPath)
		case makeCommandConstant:
			createdPath, created := selector.makeSubdirectory(currentPath)
			if created {
				currentPath = createdPath
			}
		default:
			nextPath, descended := selector.descend(currentPath, normalizedInput, subdirectoryNames)
			if descended {
				currentPath = nextPath
			} else {
				fmt.Fprint(selector.writer, unknownInputMessageConstant)
			}
		}

		if readError != nil {
			return Outcome{Cancelled: true}, nil
		}
	}
}

func (selector *Selector) listSubdirectories(currentPath string) []string {
	entries, readError := selector.fileSystem.ReadDir(currentPath)
	if readError != nil {
		fmt.Fprintf(selector.writer, listingFailedTemplateConstant, currentPath, readError)
		return nil
	}

	var subdirectoryNames []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirectoryNames = append(subdirectoryNames, entry.Name())
		}
	}
	sort.Strings(subdirectoryNames)
	return subdirectoryNames
}

func (selector *Selector) printListing(currentPath string, subdirectoryNames []string) {
	fmt.Fprintf(selector.writer, currentLocationTemplateConstant, currentPath)

	displayedCount := len(subdirectoryNames)
	if displayedCount > selector.displayLimit {
		displayedCount = selector.displayLimit
	}
	for entryIndex := 0; entryIndex < displayedCount; entryIndex++ {
		fmt.Fprintf(selector.writer, listingEntryTemplateConstant, entryIndex+1, subdirectoryNames[entryIndex])
	}
	if hiddenCount := len(subdirectoryNames) - displayedCount; hiddenCount > 0 {
		fmt.Fprintf(selector.writer, truncatedListingTemplateConstant, hiddenCount)
	}

	fmt.Fprint(selector.writer, navigatorPromptConstant)
}

func (selector *Selector) descend(currentPath string, input string, subdirectoryNames []string) (string, bool) {
	entryNumber, parseError := strconv.Atoi(input)
	if parseError != nil {
		return "", false
	}

	displayedCount := len(subdirectoryNames)
	if displayedCount > selector.displayLimit {
		displayedCount = selector.displayLimit
	}
	if entryNumber < 1 || entryNumber > displayedCount {
		return "", false
	}

	return filepath.Join(currentPath, subdirectoryNames[entryNumber-1]), true
}

func (selector *Selector) makeSubdirectory(currentPath string) (string, bool) {
	fmt.Fprint(selector.writer, makeDirectoryPromptConstant)

	rawName, readError := selector.reader.ReadString('\n')
	directoryName := strings.TrimSpace(rawName)
	if readError != nil && len(directoryName) == 0 {
		return "", false
	}
	if len(directoryName) == 0 || strings.ContainsAny(directoryName, "/\\") {
		fmt.Fprint(selector.writer, invalidDirectoryNameMessage)
		return "", false
	}

	createdPath := filepath.Join(currentPath, directoryName)
	if makeError := selector.fileSystem.MkdirAll(createdPath, newDirectoryPermissionsValue); makeError != nil {
		fmt.Fprintf(selector.writer, makeDirectoryFailedTemplate, createdPath, makeError)
		return "", false
	}
	return createdPath, true
}
