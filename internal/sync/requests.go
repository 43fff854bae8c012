package sync

import "github.com/tyemirov/gsync/internal/sync/batch"

// OperationRequestFactory produces the external invocations both workflows
// execute. gitrepo.RepositoryManager is the production implementation, so a
// single place owns the gh clone and git pull argument shape.
type OperationRequestFactory interface {
	CloneOperationRequest(parentDirectory string, qualifiedName string, identifier string) (batch.OperationRequest, error)
	PullOperationRequest(repositoryPath string, identifier string) (batch.OperationRequest, error)
}
